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

package colconv

import (
	"math"
	"testing"
)

func TestCMYKToRGB(t *testing.T) {
	cases := []struct {
		c, m, y, k float64
		r, g, b    float64
	}{
		{0, 0, 0, 0, 1, 1, 1},
		{0, 0, 0, 1, 0, 0, 0},
		{1, 0, 0, 0, 0, 1, 1},
		{0.5, 0.25, 0, 0.25, 0.25, 0.5, 0.75},
		{0.8, 0, 0, 0.5, 0, 0.5, 0.5},
		{2, -1, 0, 0, 0, 1, 1},
	}
	for _, test := range cases {
		r, g, b := CMYKToRGB(test.c, test.m, test.y, test.k)
		if r != test.r || g != test.g || b != test.b {
			t.Errorf("CMYKToRGB(%g, %g, %g, %g) = %g, %g, %g, want %g, %g, %g",
				test.c, test.m, test.y, test.k, r, g, b, test.r, test.g, test.b)
		}
	}
}

func TestGrayToRGB(t *testing.T) {
	for _, x := range []float64{0, 0.3, 1} {
		r, g, b := GrayToRGB(x)
		if r != x || g != x || b != x {
			t.Errorf("GrayToRGB(%g) = %g, %g, %g", x, r, g, b)
		}
	}
	if r, _, _ := GrayToRGB(1.5); r != 1 {
		t.Errorf("GrayToRGB(1.5) = %g", r)
	}
}

func TestLabToRGB(t *testing.T) {
	r, g, b := LabToRGB(100, 0, 0)
	if math.Abs(r-1) > 1e-3 || math.Abs(g-1) > 1e-3 || math.Abs(b-1) > 1e-3 {
		t.Errorf("white: got %g, %g, %g", r, g, b)
	}
	r, g, b = LabToRGB(0, 0, 0)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("black: got %g, %g, %g", r, g, b)
	}
}

func TestLabRoundTrip(t *testing.T) {
	for _, rgb := range [][3]float64{
		{0.2, 0.4, 0.6},
		{0.9, 0.1, 0.1},
		{0.5, 0.5, 0.5},
	} {
		L, A, B := RGBToLab(rgb[0], rgb[1], rgb[2])
		r, g, b := LabToRGB(L, A, B)
		if math.Abs(r-rgb[0]) > 1e-4 || math.Abs(g-rgb[1]) > 1e-4 || math.Abs(b-rgb[2]) > 1e-4 {
			t.Errorf("%v -> (%g, %g, %g) -> (%g, %g, %g)", rgb, L, A, B, r, g, b)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5, 0, 3) = %d", got)
	}
	if got := Clamp(-0.5, 0, 1); got != 0 {
		t.Errorf("Clamp(-0.5, 0, 1) = %g", got)
	}
	if got := Clamp(math.NaN(), 0, 1); got != 0 {
		t.Errorf("Clamp(NaN, 0, 1) = %g", got)
	}
	if got := Clamp[int64](200, 0, 255); got != 200 {
		t.Errorf("Clamp(200, 0, 255) = %d", got)
	}
}
