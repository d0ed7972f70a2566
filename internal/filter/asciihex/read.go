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

// Package asciihex implements the ASCIIHexDecode filter for PDF streams.
package asciihex

import (
	"bufio"
	"fmt"
	"io"
)

// Decode decodes data that has been encoded in ASCII hexadecimal form.
// White space is ignored, and a ">" character marks the end of data.
// If the data ends with an odd number of hex digits, the final digit is
// treated as if it were followed by 0.
func Decode(r io.Reader) io.ReadCloser {
	return &reader{r: bufio.NewReader(r)}
}

type reader struct {
	r   *bufio.Reader
	err error

	haveHigh bool
	high     byte
}

func (r *reader) Read(p []byte) (n int, err error) {
	if r.err != nil {
		return 0, r.err
	}

readLoop:
	for n < len(p) {
		c, err := r.r.ReadByte()
		if err == io.EOF {
			// A missing ">" is tolerated.
			r.finish(p, &n)
			break readLoop
		} else if err != nil {
			r.err = err
			break readLoop
		}

		var b byte
		switch {
		case c >= '0' && c <= '9':
			b = c - '0'
		case c >= 'A' && c <= 'F':
			b = c - 'A' + 10
		case c >= 'a' && c <= 'f':
			b = c - 'a' + 10
		case c == 0, c == 9, c == 10, c == 12, c == 13, c == 32:
			continue readLoop
		case c == '>':
			r.finish(p, &n)
			break readLoop
		default:
			r.err = fmt.Errorf("asciihex: invalid character %q", c)
			break readLoop
		}

		if r.haveHigh {
			p[n] = r.high<<4 | b
			n++
			r.haveHigh = false
		} else {
			r.high = b
			r.haveHigh = true
		}
	}

	return n, r.err
}

// finish flushes a pending half byte and marks the end of data.
// The caller guarantees that p has room for one more byte.
func (r *reader) finish(p []byte, n *int) {
	if r.haveHigh {
		p[*n] = r.high << 4
		*n++
		r.haveHigh = false
	}
	r.err = io.EOF
}

func (r *reader) Close() error {
	if r.err == nil || r.err == io.EOF {
		return nil
	}
	return r.err
}
