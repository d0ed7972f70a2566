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
	"bytes"
	"errors"
	"fmt"

	"seehuhn.de/go/pdfcolor/pdf"
)

// Type4 represents a PostScript calculator function, which uses a small
// subset of the PostScript language to compute its outputs.
type Type4 struct {
	// Domain defines the valid input ranges as [min0, max0, min1, max1, ...].
	Domain []float64

	// Range defines the valid output ranges as [min0, max0, min1, max1, ...].
	Range []float64

	// Program contains the PostScript code, without the enclosing braces.
	Program string

	code []instruction
}

// Shape returns the number of input and output values of the function.
func (f *Type4) Shape() (int, int) {
	return len(f.Domain) / 2, len(f.Range) / 2
}

// Apply applies the function to the given input values and returns the
// output values.  If the program fails at run time, for example because of
// a stack underflow, all outputs are set to the lower end of their range.
func (f *Type4) Apply(inputs ...float64) []float64 {
	m, n := f.Shape()
	if len(inputs) != m {
		panic(fmt.Sprintf("Type 4 function expects %d inputs, got %d", m, len(inputs)))
	}

	vm := &machine{stack: make([]psValue, 0, 16)}
	for i, x := range inputs {
		vm.push(realValue(clip(x, f.Domain[2*i], f.Domain[2*i+1])))
	}

	code := f.code
	if code == nil {
		code, vm.err = compile(f.Program)
	}
	if vm.err == nil {
		vm.run(code)
	}

	y := make([]float64, n)
	if vm.err == nil && len(vm.stack) >= n {
		results := vm.stack[len(vm.stack)-n:]
		for i, v := range results {
			y[i] = v.x
		}
	} else {
		for i := range y {
			y[i] = f.Range[2*i]
		}
	}
	clipOutputs(y, f.Range)
	return y
}

func (f *Type4) validate() error {
	m, n := f.Shape()
	if m == 0 || !checkRanges(f.Domain) {
		return newInvalidFunctionError(4, "Domain", "invalid domain %v", f.Domain)
	}
	if n == 0 || !checkRanges(f.Range) {
		return newInvalidFunctionError(4, "Range", "invalid range %v", f.Range)
	}
	if f.code == nil {
		code, err := compile(f.Program)
		if err != nil {
			return newInvalidFunctionError(4, "Program", "%v", err)
		}
		f.code = code
	}
	return nil
}

func readType4(r pdf.Getter, stm *pdf.Stream) (*Type4, error) {
	d := stm.Dict
	domain, err := readFloats(r, d["Domain"])
	if err != nil {
		return nil, pdf.Wrap(err, "Domain")
	}
	rng, err := readFloats(r, d["Range"])
	if err != nil {
		return nil, pdf.Wrap(err, "Range")
	}

	body, err := readStreamData(r, stm, -1)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) < 2 || body[0] != '{' || body[len(body)-1] != '}' {
		return nil, &pdf.MalformedFileError{
			Err: errors.New("calculator program must be enclosed in braces"),
		}
	}

	f := &Type4{
		Domain:  domain,
		Range:   rng,
		Program: string(body[1 : len(body)-1]),
	}
	return f, nil
}
