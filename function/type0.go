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
	"slices"

	"seehuhn.de/go/pdfcolor/pdf"
)

// Type0 represents a sampled function, which uses a table of sample
// values with multilinear interpolation.
type Type0 struct {
	// Domain defines the valid input ranges as [min0, max0, min1, max1, ...].
	Domain []float64

	// Range defines the valid output ranges as [min0, max0, min1, max1, ...].
	Range []float64

	// Size specifies the number of samples in each input dimension.
	Size []int

	// BitsPerSample is the number of bits per sample value
	// (1, 2, 4, 8, 12, 16, 24 or 32).
	BitsPerSample int

	// Order is the interpolation order.  Cubic spline interpolation (Order 3)
	// is evaluated using linear interpolation.
	Order int

	// Encode maps inputs to sample table indices as [min0, max0, ...].
	// If this is nil, [0, Size[0]-1, 0, Size[1]-1, ...] is used.
	Encode []float64

	// Decode maps samples to output values as [min0, max0, ...].
	// If this is nil, Range is used.
	Decode []float64

	// Samples contains the sample data, with the first input dimension
	// varying fastest.
	Samples []byte
}

// Shape returns the number of input and output values of the function.
func (f *Type0) Shape() (int, int) {
	return len(f.Domain) / 2, len(f.Range) / 2
}

// Apply applies the function to the given input values and returns the
// output values.
func (f *Type0) Apply(inputs ...float64) []float64 {
	m, n := f.Shape()
	if len(inputs) != m {
		panic(fmt.Sprintf("Type 0 function expects %d inputs, got %d", m, len(inputs)))
	}

	// Find the enclosing cell of the sample grid.
	base := make([]int, m)
	frac := make([]float64, m)
	for i, x := range inputs {
		x = clip(x, f.Domain[2*i], f.Domain[2*i+1])
		eMin, eMax := 0.0, float64(f.Size[i]-1)
		if f.Encode != nil {
			eMin, eMax = f.Encode[2*i], f.Encode[2*i+1]
		}
		e := interpolate(x, f.Domain[2*i], f.Domain[2*i+1], eMin, eMax)
		e = clip(e, 0, float64(f.Size[i]-1))

		k := int(math.Floor(e))
		if k >= f.Size[i]-1 {
			k = max(f.Size[i]-2, 0)
		}
		base[i] = k
		frac[i] = e - float64(k)
	}

	// Multilinear interpolation over the 2^m corners of the cell.
	acc := make([]float64, n)
	idx := make([]int, m)
	for corner := 0; corner < 1<<m; corner++ {
		weight := 1.0
		for i := range m {
			if corner&(1<<i) != 0 {
				if frac[i] == 0 {
					weight = 0
					break
				}
				idx[i] = base[i] + 1
				weight *= frac[i]
			} else {
				idx[i] = base[i]
				weight *= 1 - frac[i]
			}
		}
		if weight == 0 {
			continue
		}

		offset := 0
		for i := m - 1; i >= 0; i-- {
			offset = offset*f.Size[i] + idx[i]
		}
		for j := range n {
			acc[j] += weight * f.sample(offset*n+j)
		}
	}

	decode := f.Decode
	if decode == nil {
		decode = f.Range
	}
	maxSample := math.Exp2(float64(f.BitsPerSample)) - 1
	for j := range n {
		acc[j] = interpolate(acc[j], 0, maxSample, decode[2*j], decode[2*j+1])
	}
	clipOutputs(acc, f.Range)
	return acc
}

// sample returns the sample value with index i.  Samples are packed without
// padding, most significant bit first.
func (f *Type0) sample(i int) float64 {
	bits := f.BitsPerSample
	pos := i * bits

	var val uint64
	for bits > 0 {
		byteIdx := pos / 8
		if byteIdx >= len(f.Samples) {
			return 0
		}
		avail := 8 - pos%8
		take := min(avail, bits)
		b := uint64(f.Samples[byteIdx]) >> (avail - take) & (1<<take - 1)
		val = val<<take | b
		pos += take
		bits -= take
	}
	return float64(val)
}

func (f *Type0) validate() error {
	m, n := f.Shape()
	if m == 0 || !checkRanges(f.Domain) {
		return newInvalidFunctionError(0, "Domain", "invalid domain %v", f.Domain)
	}
	if n == 0 || !checkRanges(f.Range) {
		return newInvalidFunctionError(0, "Range", "invalid range %v", f.Range)
	}
	if len(f.Size) != m {
		return newInvalidFunctionError(0, "Size", "expected %d entries, got %d", m, len(f.Size))
	}
	for _, s := range f.Size {
		if s < 1 {
			return newInvalidFunctionError(0, "Size", "invalid size %d", s)
		}
	}
	if !slices.Contains(validBitsPerSample, f.BitsPerSample) {
		return newInvalidFunctionError(0, "BitsPerSample", "invalid value %d", f.BitsPerSample)
	}
	if f.Order != 1 && f.Order != 3 {
		return newInvalidFunctionError(0, "Order", "must be 1 or 3, got %d", f.Order)
	}
	if f.Encode != nil && len(f.Encode) != 2*m {
		return newInvalidFunctionError(0, "Encode", "expected %d entries, got %d", 2*m, len(f.Encode))
	}
	if f.Decode != nil && len(f.Decode) != 2*n {
		return newInvalidFunctionError(0, "Decode", "expected %d entries, got %d", 2*n, len(f.Decode))
	}
	if need := f.numBytes(); need < 0 {
		return newInvalidFunctionError(0, "Size", "sample table too large")
	} else if int64(len(f.Samples)) < need {
		return newInvalidFunctionError(0, "Samples", "expected %d bytes, got %d", need, len(f.Samples))
	}
	return nil
}

// numBytes returns the length of the sample data in bytes.
// The result is -1 if the sample table is unreasonably large.
func (f *Type0) numBytes() int64 {
	_, n := f.Shape()
	total := int64(n) * int64(f.BitsPerSample)
	for _, s := range f.Size {
		total *= int64(s)
		if s < 0 || total > maxSampleBits {
			return -1
		}
	}
	return (total + 7) / 8
}

const maxSampleBits = 8 << 26

var validBitsPerSample = []int{1, 2, 4, 8, 12, 16, 24, 32}

func readType0(r pdf.Getter, stm *pdf.Stream) (*Type0, error) {
	d := stm.Dict

	domain, err := readFloats(r, d["Domain"])
	if err != nil {
		return nil, pdf.Wrap(err, "Domain")
	}
	rng, err := readFloats(r, d["Range"])
	if err != nil {
		return nil, pdf.Wrap(err, "Range")
	}
	size, err := readInts(r, d["Size"])
	if err != nil {
		return nil, pdf.Wrap(err, "Size")
	}
	bps, err := pdf.GetInteger(r, d["BitsPerSample"])
	if err != nil {
		return nil, pdf.Wrap(err, "BitsPerSample")
	}

	f := &Type0{
		Domain:        domain,
		Range:         rng,
		Size:          size,
		BitsPerSample: int(bps),
		Order:         1,
	}
	if obj, ok := d["Order"]; ok {
		order, err := pdf.GetInteger(r, obj)
		if err != nil {
			return nil, pdf.Wrap(err, "Order")
		}
		f.Order = int(order)
	}
	f.Encode, err = readFloats(r, d["Encode"])
	if err != nil {
		return nil, pdf.Wrap(err, "Encode")
	}
	f.Decode, err = readFloats(r, d["Decode"])
	if err != nil {
		return nil, pdf.Wrap(err, "Decode")
	}

	// Check the table shape before allocating the sample buffer.
	// Invalid shapes are reported by validate.
	if len(f.Size) != len(f.Domain)/2 || !slices.Contains(validBitsPerSample, f.BitsPerSample) {
		return f, nil
	}
	need := f.numBytes()
	if need < 0 {
		return nil, newInvalidFunctionError(0, "Size", "sample table too large")
	}
	f.Samples, err = readStreamData(r, stm, need)
	if err != nil {
		return nil, err
	}
	return f, nil
}
