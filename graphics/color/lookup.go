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

package color

import (
	"errors"
	"io"

	"seehuhn.de/go/pdfcolor/pdf"
)

// loadLookup reads the palette of an Indexed color space.
//
// The palette can be given as a string, or as a reference to a stream.
// Strings must contain at least tableLen bytes.  Streams which are too
// short are padded with zeros.
func (res *Resolver) loadLookup(desc, obj pdf.Object, tableLen int) ([]byte, error) {
	_, isIndirect := obj.(pdf.Reference)

	resolved, err := pdf.Resolve(res.r, obj)
	if err != nil {
		return nil, loadError(desc, err)
	}

	switch x := resolved.(type) {
	case pdf.String:
		if len(x) < tableLen {
			return nil, syntaxError(desc, "lookup table too short: %d < %d bytes", len(x), tableLen)
		}
		lookup := make([]byte, tableLen)
		copy(lookup, x)
		return lookup, nil

	case *pdf.Stream:
		if !isIndirect {
			break
		}
		return readLookupStream(res.r, desc, x, tableLen)

	default:
		if isIndirect {
			return nil, loadError(desc,
				errors.New("lookup table reference does not point to a stream"))
		}
	}
	return nil, syntaxError(desc, "invalid lookup table %s", describe(obj))
}

func readLookupStream(r pdf.Getter, desc pdf.Object, stm *pdf.Stream, tableLen int) ([]byte, error) {
	body, err := pdf.GetStreamReader(r, stm)
	if err != nil {
		return nil, loadError(desc, err)
	}
	defer body.Close()

	lookup := make([]byte, tableLen)
	n, err := io.ReadFull(body, lookup)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, loadError(desc, err)
	}
	clear(lookup[n:])
	return lookup, nil
}
