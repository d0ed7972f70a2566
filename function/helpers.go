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
	"io"
	"math"

	"seehuhn.de/go/pdfcolor/pdf"
)

func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

// isRange checks if the given values x and y are finite and satisfy x <= y.
func isRange(x, y float64) bool {
	return isFinite(x) && isFinite(y) && x <= y
}

// checkRanges checks that x is a list of valid [min, max] pairs.
func checkRanges(x []float64) bool {
	if len(x)%2 != 0 {
		return false
	}
	for i := 0; i < len(x); i += 2 {
		if !isRange(x[i], x[i+1]) {
			return false
		}
	}
	return true
}

// clip clips a value to the range [lo, hi].  NaN is mapped to lo.
func clip(x, lo, hi float64) float64 {
	if x >= lo && x <= hi {
		return x
	}
	if x > hi {
		return hi
	}
	return lo
}

// interpolate maps x from the range [xMin, xMax] linearly onto [yMin, yMax].
func interpolate(x, xMin, xMax, yMin, yMax float64) float64 {
	if xMax == xMin {
		return yMin
	}
	return yMin + (x-xMin)*(yMax-yMin)/(xMax-xMin)
}

// clipOutputs clips y[i] to [rng[2i], rng[2i+1]], if the range is given.
func clipOutputs(y []float64, rng []float64) {
	if len(rng) < 2*len(y) {
		return
	}
	for i := range y {
		y[i] = clip(y[i], rng[2*i], rng[2*i+1])
	}
}

// readFloats reads an array of numbers.  A missing array gives nil.
func readFloats(r pdf.Getter, obj pdf.Object) ([]float64, error) {
	a, err := pdf.GetArray(r, obj)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	res := make([]float64, len(a))
	for i, elem := range a {
		res[i], err = pdf.GetNumber(r, elem)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// readInts reads an array of integers.  A missing array gives nil.
func readInts(r pdf.Getter, obj pdf.Object) ([]int, error) {
	a, err := pdf.GetArray(r, obj)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	res := make([]int, len(a))
	for i, elem := range a {
		x, err := pdf.GetInteger(r, elem)
		if err != nil {
			return nil, err
		}
		res[i] = int(x)
	}
	return res, nil
}

// readStreamData reads the decoded data of a function stream.
// If limit is non-negative, at most limit bytes are read.
func readStreamData(r pdf.Getter, stm *pdf.Stream, limit int64) (data []byte, err error) {
	body, err := pdf.GetStreamReader(r, stm)
	if err != nil {
		return nil, err
	}
	defer func() {
		closeErr := body.Close()
		if err == nil {
			err = closeErr
		}
	}()

	if limit < 0 {
		return io.ReadAll(body)
	}
	data = make([]byte, limit)
	n, err := io.ReadFull(body, data)
	if err != nil {
		return nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("sample data too short: %d of %d bytes", n, limit),
		}
	}
	return data, nil
}

var errMissingStream = &pdf.MalformedFileError{
	Err: errors.New("function must be a stream"),
}
