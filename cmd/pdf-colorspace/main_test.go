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

package main

import (
	"bytes"
	stdcolor "image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfcolor/graphics/color"
	"seehuhn.de/go/pdfcolor/pdf"
)

func TestSamples(t *testing.T) {
	if n := len(samples(color.DeviceCMYK)); n != 4*rampSteps {
		t.Errorf("CMYK: %d samples", n)
	}

	lab := samples(color.DeviceLab)
	if d := cmp.Diff([]float64{100, 0, 0}, lab[rampSteps-1]); d != "" {
		t.Errorf("Lab L ramp (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]float64{0, -100, 0}, lab[rampSteps]); d != "" {
		t.Errorf("Lab a ramp (-want +got):\n%s", d)
	}

	res := color.NewResolver(pdf.NewData(), nil)
	defer res.Close()
	s, err := res.Resolve(pdf.Array{pdf.Name("Indexed"), pdf.Name("DeviceGray"), pdf.Integer(2), pdf.String{0, 128, 255}})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()
	want := [][]float64{{0}, {1}, {2}}
	if d := cmp.Diff(want, samples(s)); d != "" {
		t.Errorf("palette (-want +got):\n%s", d)
	}
}

func TestPrintSamples(t *testing.T) {
	buf := &bytes.Buffer{}
	printSamples(buf, color.DeviceRGB, [][]float64{{1, 0, 0}}, false)
	if got := buf.String(); got != "#ff0000  [1 0 0]\n" {
		t.Errorf("got %q", got)
	}

	buf.Reset()
	printSamples(buf, color.DeviceRGB, [][]float64{{0, 0, 1}}, true)
	if !strings.HasPrefix(buf.String(), "\x1b[48;2;0;0;255m") {
		t.Errorf("got %q", buf.String())
	}
}

func TestSwatch(t *testing.T) {
	colors := make([]color.RGB, rampSteps+1)
	colors[0] = color.RGB{R: 1}
	colors[rampSteps] = color.RGB{B: 1}

	img := swatch(colors, 4)
	b := img.Bounds()
	if b.Dx() != rampSteps*4 || b.Dy() != 2*4 {
		t.Fatalf("swatch size %v", b)
	}

	red := stdcolor.RGBA{R: 255, A: 255}
	blue := stdcolor.RGBA{B: 255, A: 255}
	black := stdcolor.RGBA{A: 255}
	checks := []struct {
		x, y int
		want stdcolor.RGBA
	}{
		{0, 0, red},
		{3, 3, red},
		{4, 0, black},
		{0, 4, blue},
		{3, 7, blue},
		{4, 4, stdcolor.RGBA{}},
	}
	for _, c := range checks {
		got := stdcolor.RGBAModel.Convert(img.At(c.x, c.y))
		if got != c.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}
