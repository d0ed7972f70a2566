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

	"seehuhn.de/go/pdfcolor/pdf"
)

// Func is a PDF function.
//
// Implementations are immutable after construction, so that a function can
// be evaluated concurrently from several goroutines.
type Func interface {
	// Shape returns the number of input and output values of the function.
	Shape() (int, int)

	// Apply evaluates the function.  The number of inputs must match the
	// first return value of Shape.  Inputs are clipped to the domain of the
	// function.
	Apply(inputs ...float64) []float64
}

// Read reads a function from a PDF file.
// The object can be a function dictionary, a function stream, or a
// reference to one of these.
func Read(r pdf.Getter, obj pdf.Object) (Func, error) {
	return read(r, obj, pdf.NewCycleChecker())
}

func read(r pdf.Getter, obj pdf.Object, cycle *pdf.CycleChecker) (Func, error) {
	if err := cycle.Check(obj); err != nil {
		return nil, err
	}

	dict, stm, err := pdf.GetDictOrStream(r, obj)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, &pdf.MalformedFileError{
			Err: errors.New("missing function dictionary"),
		}
	}

	ft, err := pdf.GetInteger(r, dict["FunctionType"])
	if err != nil {
		return nil, pdf.Wrap(err, "FunctionType")
	} else if _, present := dict["FunctionType"]; !present {
		return nil, &pdf.MalformedFileError{
			Err: errors.New("missing /FunctionType entry"),
		}
	}

	var f interface {
		Func
		validate() error
	}
	switch ft {
	case 0:
		if stm == nil {
			return nil, errMissingStream
		}
		f, err = readType0(r, stm)
	case 2:
		f, err = readType2(r, dict)
	case 3:
		f, err = readType3(r, dict, cycle)
	case 4:
		if stm == nil {
			return nil, errMissingStream
		}
		f, err = readType4(r, stm)
	default:
		return nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("unsupported function type %d", ft),
		}
	}
	if err != nil {
		return nil, pdf.Wrap(err, fmt.Sprintf("type %d function", ft))
	}

	err = f.validate()
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Load reads a function with nIn inputs and nOut outputs.
//
// Where PDF allows this, obj can also be an array of nOut functions, each
// with nIn inputs and a single output.  The functions in the array are
// combined into one function.
func Load(r pdf.Getter, obj pdf.Object, nIn, nOut int) (Func, error) {
	resolved, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}

	if a, isArray := resolved.(pdf.Array); isArray {
		if len(a) != nOut {
			return nil, &pdf.MalformedFileError{
				Err: fmt.Errorf("expected %d functions, got %d", nOut, len(a)),
			}
		}
		parts := make([]Func, len(a))
		for i, elem := range a {
			fn, err := Read(r, elem)
			if err != nil {
				return nil, err
			}
			if err := checkShape(fn, nIn, 1); err != nil {
				return nil, err
			}
			parts[i] = fn
		}
		return &combined{parts: parts, nIn: nIn}, nil
	}

	fn, err := Read(r, obj)
	if err != nil {
		return nil, err
	}
	if err := checkShape(fn, nIn, nOut); err != nil {
		return nil, err
	}
	return fn, nil
}

func checkShape(fn Func, nIn, nOut int) error {
	m, n := fn.Shape()
	if m != nIn || n != nOut {
		return &pdf.MalformedFileError{
			Err: fmt.Errorf("function has %d inputs and %d outputs, expected %d and %d",
				m, n, nIn, nOut),
		}
	}
	return nil
}

// combined evaluates a list of single-output functions on the same inputs.
type combined struct {
	parts []Func
	nIn   int
}

func (f *combined) Shape() (int, int) {
	return f.nIn, len(f.parts)
}

func (f *combined) Apply(inputs ...float64) []float64 {
	res := make([]float64, len(f.parts))
	for i, part := range f.parts {
		res[i] = part.Apply(inputs...)[0]
	}
	return res
}
