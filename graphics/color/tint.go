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

	"seehuhn.de/go/pdfcolor/function"
	"seehuhn.de/go/pdfcolor/pdf"
)

// SpaceTint is a Separation or DeviceN color space.  Color values are
// tint values, which are mapped to the base color space by a PDF function.
type SpaceTint struct {
	refCount

	// Base is the alternate color space, used to display the colorants.
	Base Space

	// Tint maps the n components of the color space to Base.Channels()
	// components in the base color space.
	Tint function.Func

	// Names lists the colorant names.
	Names []pdf.Name

	n int
}

// newTint returns a new Separation or DeviceN color space with reference
// count 1.  The function takes ownership of the reference to base.
func newTint(names []pdf.Name, base Space, tint function.Func) *SpaceTint {
	s := &SpaceTint{
		Base:  base,
		Tint:  tint,
		Names: names,
		n:     len(names),
	}
	s.refs.Store(1)
	return s
}

// Kind implements the [Space] interface.
// The result is KindSeparation for one colorant, and KindDeviceN otherwise.
func (s *SpaceTint) Kind() Kind {
	if s.n == 1 {
		return KindSeparation
	}
	return KindDeviceN
}

// Channels implements the [Space] interface.
func (s *SpaceTint) Channels() int {
	return s.n
}

// ToRGB implements the [Space] interface.
func (s *SpaceTint) ToRGB(x []float64) RGB {
	tint := make([]float64, s.n)
	copy(tint, x)
	return s.Base.ToRGB(s.Tint.Apply(tint...))
}

// Retain implements the [Space] interface.
func (s *SpaceTint) Retain() Space {
	s.refs.Add(1)
	return s
}

// Release implements the [Space] interface.
func (s *SpaceTint) Release() {
	if s.decRef() {
		s.Base.Release()
		s.Tint = nil
	}
}

func (s *SpaceTint) String() string {
	return fmt.Sprintf("%s(%d, %v)", s.Kind(), s.n, s.Base)
}

// buildTint builds a color space from one of the descriptors
// [/Separation name base tint] and [/DeviceN names base tint attributes].
func (res *Resolver) buildTint(desc pdf.Object, a pdf.Array) (_ Space, err error) {
	if len(a) < 4 {
		return nil, syntaxError(desc, "expected at least 4 array elements, got %d", len(a))
	}

	namesObj, err := pdf.Resolve(res.r, a[1])
	if err != nil {
		return nil, loadError(desc, err)
	}
	var names []pdf.Name
	if arr, isArray := namesObj.(pdf.Array); isArray {
		if len(arr) > MaxComponents {
			return nil, &Error{
				Kind: ErrComponentLimit,
				Desc: describe(desc),
				Err:  fmt.Errorf("%d colorants", len(arr)),
			}
		}
		if len(arr) == 0 {
			return nil, syntaxError(desc, "empty list of colorants")
		}
		names = make([]pdf.Name, len(arr))
		for i, obj := range arr {
			// Colorant names only serve as labels.
			names[i], _ = pdf.GetName(res.r, obj)
		}
	} else {
		name, _ := namesObj.(pdf.Name)
		names = []pdf.Name{name}
	}

	base, err := res.resolve(a[2])
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			base.Release()
		}
	}()

	tint, err := function.Load(res.r, a[3], len(names), base.Channels())
	if err != nil {
		return nil, loadError(desc, err)
	}

	return newTint(names, base, tint), nil
}
