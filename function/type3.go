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
	"errors"
	"fmt"
	"sort"

	"seehuhn.de/go/pdfcolor/pdf"
)

// Type3 represents a stitching function, which combines several 1-input
// functions across subdomains of the input range.
type Type3 struct {
	// XMin and XMax give the domain of the function.
	XMin, XMax float64

	// Functions are the k functions which are stitched together.  All
	// functions must have one input and the same number of outputs.
	Functions []Func

	// Bounds gives the k-1 boundaries between the subdomains, in
	// increasing order.
	Bounds []float64

	// Encode gives, for each subdomain, the interval onto which the
	// subdomain is mapped before the corresponding function is applied,
	// in the form [e0min, e0max, e1min, e1max, ...].
	Encode []float64

	// Range (optional) gives clipping ranges for the outputs.
	Range []float64
}

// Shape returns the number of input and output values of the function.
func (f *Type3) Shape() (int, int) {
	if len(f.Functions) == 0 {
		return 1, 0
	}
	_, n := f.Functions[0].Shape()
	return 1, n
}

// Apply applies the function to the given input value and returns the
// output values.
func (f *Type3) Apply(inputs ...float64) []float64 {
	if len(inputs) != 1 {
		panic(fmt.Sprintf("Type 3 function expects 1 input, got %d", len(inputs)))
	}
	x := clip(inputs[0], f.XMin, f.XMax)

	// Subdomain i is [Bounds[i-1], Bounds[i]), the last subdomain is closed.
	// If XMin equals Bounds[0], the first subdomain contains only XMin.
	i := sort.Search(len(f.Bounds), func(j int) bool { return x < f.Bounds[j] })
	if len(f.Bounds) > 0 && x == f.XMin && f.Bounds[0] == f.XMin {
		i = 0
	}

	lo, hi := f.XMin, f.XMax
	if i > 0 {
		lo = f.Bounds[i-1]
	}
	if i < len(f.Bounds) {
		hi = f.Bounds[i]
	}

	e := interpolate(x, lo, hi, f.Encode[2*i], f.Encode[2*i+1])
	y := f.Functions[i].Apply(e)
	clipOutputs(y, f.Range)
	return y
}

func (f *Type3) validate() error {
	k := len(f.Functions)
	if k == 0 {
		return newInvalidFunctionError(3, "Functions", "missing child functions")
	}
	if !isRange(f.XMin, f.XMax) {
		return newInvalidFunctionError(3, "Domain", "invalid domain [%g, %g]", f.XMin, f.XMax)
	}
	_, n := f.Functions[0].Shape()
	for i, fn := range f.Functions {
		m, ni := fn.Shape()
		if m != 1 || ni != n {
			return newInvalidFunctionError(3, "Functions",
				"function %d has shape %d→%d, expected 1→%d", i, m, ni, n)
		}
	}
	if len(f.Bounds) != k-1 {
		return newInvalidFunctionError(3, "Bounds", "expected %d entries, got %d", k-1, len(f.Bounds))
	}
	prev := f.XMin
	for _, b := range f.Bounds {
		if !isRange(prev, b) || b > f.XMax {
			return newInvalidFunctionError(3, "Bounds", "invalid bounds %v", f.Bounds)
		}
		prev = b
	}
	if len(f.Encode) != 2*k {
		return newInvalidFunctionError(3, "Encode", "expected %d entries, got %d", 2*k, len(f.Encode))
	}
	if f.Range != nil && (len(f.Range) != 2*n || !checkRanges(f.Range)) {
		return newInvalidFunctionError(3, "Range", "invalid range %v", f.Range)
	}
	return nil
}

func readType3(r pdf.Getter, d pdf.Dict, cycle *pdf.CycleChecker) (*Type3, error) {
	domain, err := readFloats(r, d["Domain"])
	if err != nil {
		return nil, pdf.Wrap(err, "Domain")
	}
	if len(domain) != 2 {
		return nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("expected 2 domain values, got %d", len(domain)),
		}
	}

	a, err := pdf.GetArray(r, d["Functions"])
	if err != nil {
		return nil, pdf.Wrap(err, "Functions")
	}
	if len(a) == 0 {
		return nil, &pdf.MalformedFileError{
			Err: errors.New("missing child functions"),
		}
	}
	functions := make([]Func, len(a))
	for i, obj := range a {
		functions[i], err = read(r, obj, cycle)
		if err != nil {
			return nil, pdf.Wrap(err, fmt.Sprintf("function %d", i))
		}
	}

	f := &Type3{
		XMin:      domain[0],
		XMax:      domain[1],
		Functions: functions,
	}
	f.Bounds, err = readFloats(r, d["Bounds"])
	if err != nil {
		return nil, pdf.Wrap(err, "Bounds")
	}
	f.Encode, err = readFloats(r, d["Encode"])
	if err != nil {
		return nil, pdf.Wrap(err, "Encode")
	}
	f.Range, err = readFloats(r, d["Range"])
	if err != nil {
		return nil, pdf.Wrap(err, "Range")
	}
	return f, nil
}
