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

package predict

import (
	"fmt"
	"io"
)

// NewReader returns a reader which reverses the predictor described by p
// on the data read from r.  For predictor 1, r is returned unchanged.
// A final incomplete row is decoded as far as it goes.
func NewReader(r io.Reader, p *Params) (io.Reader, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Predictor == 1 {
		return r, nil
	}

	n := p.rowBytes()
	res := &reader{
		src:  r,
		p:    *p,
		cur:  make([]byte, n),
		prev: make([]byte, n),
	}
	if p.Predictor == 2 {
		res.in = make([]byte, n)
	} else {
		res.in = make([]byte, n+1)
	}
	return res, nil
}

type reader struct {
	src io.Reader
	p   Params
	err error

	in      []byte // one encoded row
	cur     []byte
	prev    []byte // previous decoded row, for the PNG filters
	pending []byte // decoded bytes not yet returned
}

// Read implements the [io.Reader] interface.
func (r *reader) Read(buf []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		r.err = r.nextRow()
	}
	n := copy(buf, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *reader) nextRow() error {
	n, err := io.ReadFull(r.src, r.in)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	if n == 0 {
		return err
	}
	in := r.in[:n]

	if r.p.Predictor == 2 {
		out := r.cur[:n]
		copy(out, in)
		r.undoTIFF(out)
		r.pending = out
		return err
	}

	tag, data := in[0], in[1:]
	out := r.cur[:len(data)]
	if tagErr := r.undoPNG(tag, data, out); tagErr != nil {
		return tagErr
	}
	r.pending = out
	r.cur, r.prev = r.prev, r.cur
	return err
}

func (r *reader) undoPNG(tag byte, in, out []byte) error {
	if tag > 4 {
		return fmt.Errorf("invalid PNG filter type %d", tag)
	}

	bpp := r.p.pixelBytes()
	for i, x := range in {
		var left, upLeft byte
		if i >= bpp {
			left = out[i-bpp]
			upLeft = r.prev[i-bpp]
		}
		up := r.prev[i]

		var pred byte
		switch tag {
		case 1:
			pred = left
		case 2:
			pred = up
		case 3:
			pred = byte((int(left) + int(up)) / 2)
		case 4:
			pred = paeth(left, up, upLeft)
		}
		out[i] = x + pred
	}
	return nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// undoTIFF reverses horizontal differencing within one row.
func (r *reader) undoTIFF(row []byte) {
	nc := r.p.Colors
	switch bpc := r.p.BitsPerComponent; bpc {
	case 8:
		for i := nc; i < len(row); i++ {
			row[i] += row[i-nc]
		}
	case 16:
		for i := 2 * nc; i+1 < len(row); i += 2 {
			v := uint16(row[i])<<8 | uint16(row[i+1])
			v += uint16(row[i-2*nc])<<8 | uint16(row[i-2*nc+1])
			row[i] = byte(v >> 8)
			row[i+1] = byte(v)
		}
	default:
		mask := byte(1)<<bpc - 1
		n := min(nc*r.p.Columns, len(row)*8/bpc)
		for k := nc; k < n; k++ {
			v := getBits(row, k, bpc) + getBits(row, k-nc, bpc)
			setBits(row, k, bpc, v&mask)
		}
	}
}

func getBits(row []byte, k, bpc int) byte {
	pos := k * bpc
	shift := 8 - bpc - pos%8
	return row[pos/8] >> shift & (byte(1)<<bpc - 1)
}

func setBits(row []byte, k, bpc int, v byte) {
	pos := k * bpc
	shift := 8 - bpc - pos%8
	mask := (byte(1)<<bpc - 1) << shift
	row[pos/8] = row[pos/8]&^mask | v<<shift
}
