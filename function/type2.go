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

package function

import (
	"fmt"
	"math"

	"seehuhn.de/go/pdfcolor/pdf"
)

// Type2 represents an exponential interpolation function, of the form
// y = C0 + x^N × (C1 - C0).  These functions have a single input x and can
// have one or more outputs.
type Type2 struct {
	// XMin and XMax give the domain of the function.  Inputs outside
	// [XMin, XMax] are clipped.
	XMin, XMax float64

	// Range (optional) gives clipping ranges for the outputs, in the form
	// [min0, max0, min1, max1, ...].
	Range []float64

	// C0 is the function result for x = 0.
	C0 []float64

	// C1 is the function result for x = 1.
	C1 []float64

	// N is the interpolation exponent.
	N float64
}

// Shape returns the number of input and output values of the function.
func (f *Type2) Shape() (int, int) {
	return 1, len(f.C0)
}

// Apply applies the function to the given input value and returns the
// output values.
func (f *Type2) Apply(inputs ...float64) []float64 {
	if len(inputs) != 1 {
		panic(fmt.Sprintf("Type 2 function expects 1 input, got %d", len(inputs)))
	}
	x := clip(inputs[0], f.XMin, f.XMax)

	var xN float64
	switch f.N {
	case 0:
		xN = 1
	case 1:
		xN = x
	default:
		xN = math.Pow(x, f.N)
	}

	y := make([]float64, len(f.C0))
	for i := range y {
		y[i] = f.C0[i] + xN*(f.C1[i]-f.C0[i])
	}
	clipOutputs(y, f.Range)
	return y
}

func (f *Type2) validate() error {
	if !isRange(f.XMin, f.XMax) {
		return newInvalidFunctionError(2, "Domain", "invalid domain [%g, %g]", f.XMin, f.XMax)
	}
	if len(f.C0) < 1 || len(f.C0) != len(f.C1) {
		return newInvalidFunctionError(2, "C0/C1", "invalid length %d, %d", len(f.C0), len(f.C1))
	}
	if f.Range != nil && (len(f.Range) != 2*len(f.C0) || !checkRanges(f.Range)) {
		return newInvalidFunctionError(2, "Range", "invalid range %v", f.Range)
	}
	if !isFinite(f.N) {
		return newInvalidFunctionError(2, "N", "must be a finite number, got %g", f.N)
	}
	if f.N != math.Trunc(f.N) && f.XMin < 0 {
		return newInvalidFunctionError(2, "Domain",
			"minimum must be >= 0 when N is non-integer, got %g", f.XMin)
	}
	if f.N < 0 && f.XMin <= 0 && f.XMax >= 0 {
		return newInvalidFunctionError(2, "Domain", "must not include 0 when N is negative")
	}
	return nil
}

func readType2(r pdf.Getter, d pdf.Dict) (*Type2, error) {
	domain, err := readFloats(r, d["Domain"])
	if err != nil {
		return nil, pdf.Wrap(err, "Domain")
	}
	if len(domain) != 2 {
		return nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("expected 2 domain values, got %d", len(domain)),
		}
	}

	n, err := pdf.GetNumber(r, d["N"])
	if err != nil {
		return nil, pdf.Wrap(err, "N")
	}

	f := &Type2{
		XMin: domain[0],
		XMax: domain[1],
		C0:   []float64{0},
		C1:   []float64{1},
		N:    n,
	}

	f.Range, err = readFloats(r, d["Range"])
	if err != nil {
		return nil, pdf.Wrap(err, "Range")
	}
	if obj, ok := d["C0"]; ok {
		f.C0, err = readFloats(r, obj)
		if err != nil {
			return nil, pdf.Wrap(err, "C0")
		}
	}
	if obj, ok := d["C1"]; ok {
		f.C1, err = readFloats(r, obj)
		if err != nil {
			return nil, pdf.Wrap(err, "C1")
		}
	}

	return f, nil
}
