// seehuhn.de/go/pdfcolor - resolve and evaluate PDF color spaces
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package runlength implements the RunLengthDecode filter for PDF streams.
package runlength

import (
	"bufio"
	"errors"
	"io"
)

// ErrTruncated indicates that the encoded data ends inside a run.
var ErrTruncated = errors.New("runlength: truncated run")

// Decode returns a reader for the decoded form of the run-length encoded
// data in r.  Decoding stops at the end-of-data marker 128, or at the end
// of r.
func Decode(r io.Reader) io.ReadCloser {
	return &decoder{src: bufio.NewReader(r)}
}

type decoder struct {
	src *bufio.Reader
	err error

	copyLeft   int // literal bytes of the current run still in src
	repeatLeft int // copies of fill still to be emitted
	fill       byte
}

// Read implements the [io.Reader] interface.
func (d *decoder) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) && d.err == nil {
		if d.copyLeft == 0 && d.repeatLeft == 0 {
			d.err = d.startRun()
			continue
		}

		buf := p[n:]
		if d.repeatLeft > 0 {
			k := min(d.repeatLeft, len(buf))
			for i := range k {
				buf[i] = d.fill
			}
			n += k
			d.repeatLeft -= k
			continue
		}

		k, err := d.src.Read(buf[:min(d.copyLeft, len(buf))])
		n += k
		d.copyLeft -= k
		if err == io.EOF {
			if d.copyLeft > 0 {
				err = ErrTruncated
			} else {
				err = nil
			}
		}
		d.err = err
	}

	if n > 0 {
		return n, nil
	}
	return 0, d.err
}

// startRun reads the length byte of the next run.
func (d *decoder) startRun() error {
	length, err := d.src.ReadByte()
	if err != nil {
		return err
	}

	switch {
	case length == 128:
		return io.EOF
	case length < 128:
		d.copyLeft = int(length) + 1
	default:
		fill, err := d.src.ReadByte()
		if err == io.EOF {
			return ErrTruncated
		} else if err != nil {
			return err
		}
		d.fill = fill
		d.repeatLeft = 257 - int(length)
	}
	return nil
}

// Close implements the [io.Closer] interface.
// Unread input is discarded.
func (d *decoder) Close() error {
	return nil
}
