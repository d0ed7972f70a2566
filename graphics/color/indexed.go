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
	"fmt"

	"seehuhn.de/go/pdfcolor/internal/colconv"
	"seehuhn.de/go/pdfcolor/pdf"
)

// SpaceIndexed is an Indexed color space.  Color values are palette
// indices in the range 0, ..., HiVal.
type SpaceIndexed struct {
	refCount

	// Base is the color space of the palette entries.
	Base Space

	// HiVal is the highest valid palette index, in the range 0, ..., 255.
	HiVal int

	// Lookup contains the palette, with Base.Channels() bytes per entry.
	// Byte values are mapped linearly onto the component ranges of Base.
	Lookup []byte
}

// newIndexed returns a new Indexed color space with reference count 1.
// The function takes ownership of the reference to base.
func newIndexed(base Space, hiVal int, lookup []byte) *SpaceIndexed {
	s := &SpaceIndexed{
		Base:   base,
		HiVal:  hiVal,
		Lookup: lookup,
	}
	s.refs.Store(1)
	return s
}

// Kind implements the [Space] interface.
func (s *SpaceIndexed) Kind() Kind {
	return KindIndexed
}

// Channels implements the [Space] interface.
func (s *SpaceIndexed) Channels() int {
	return 1
}

// ToRGB implements the [Space] interface.
// The index is truncated to an integer and clamped to [0, HiVal].
func (s *SpaceIndexed) ToRGB(x []float64) RGB {
	return s.Base.ToRGB(s.Entry(int(colconv.Clamp(component(x, 0), 0, float64(s.HiVal)))))
}

// Entry returns the palette entry with index i, as a color value in the
// base color space.  The index is clamped to [0, HiVal].
func (s *SpaceIndexed) Entry(i int) []float64 {
	i = colconv.Clamp(i, 0, s.HiVal)
	n := s.Base.Channels()
	entry := s.Lookup[i*n : (i+1)*n]
	res := make([]float64, n)
	for j, b := range entry {
		lo, hi := componentRange(s.Base, j)
		res[j] = lo + float64(b)*(hi-lo)/255
	}
	return res
}

// Retain implements the [Space] interface.
func (s *SpaceIndexed) Retain() Space {
	s.refs.Add(1)
	return s
}

// Release implements the [Space] interface.
func (s *SpaceIndexed) Release() {
	if s.decRef() {
		s.Base.Release()
		s.Lookup = nil
	}
}

func (s *SpaceIndexed) String() string {
	return fmt.Sprintf("Indexed(%v, %d)", s.Base, s.HiVal)
}

// buildIndexed builds an Indexed color space from the descriptor
// [/Indexed base hival lookup].
func (res *Resolver) buildIndexed(desc pdf.Object, a pdf.Array) (_ Space, err error) {
	if len(a) < 4 {
		return nil, syntaxError(desc, "expected 4 array elements, got %d", len(a))
	}

	base, err := res.resolve(a[1])
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			base.Release()
		}
	}()

	hiValObj, err := pdf.Resolve(res.r, a[2])
	if err != nil {
		return nil, loadError(desc, err)
	}
	hiVal := int(colconv.Clamp(pdf.ToInt(hiValObj), 0, 255))

	tableLen := base.Channels() * (hiVal + 1)
	lookup, err := res.loadLookup(desc, a[3], tableLen)
	if err != nil {
		return nil, err
	}

	return newIndexed(base, hiVal, lookup), nil
}
