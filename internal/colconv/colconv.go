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

// Package colconv implements the simple, profile-free colour conversions
// used to display colours from the device colour spaces on screen.
package colconv

import (
	"math"

	"golang.org/x/exp/constraints"
)

const deviceGamma = 2.2

// WhitePointD65 is the CIE 1931 XYZ tristimulus value of the D65 white point.
var WhitePointD65 = [3]float64{0.95047, 1.0, 1.08883}

// GrayToRGB converts a DeviceGray value to RGB.  All values are in the
// range [0, 1].
func GrayToRGB(gray float64) (r, g, b float64) {
	gray = Clamp(gray, 0, 1)
	return gray, gray, gray
}

// CMYKToRGB converts a DeviceCMYK colour to RGB, using the naive formula
// r = 1 - min(1, c+k) (and similarly for green and blue).
func CMYKToRGB(c, m, y, k float64) (r, g, b float64) {
	r = 1 - min(1, Clamp(c, 0, 1)+Clamp(k, 0, 1))
	g = 1 - min(1, Clamp(m, 0, 1)+Clamp(k, 0, 1))
	b = 1 - min(1, Clamp(y, 0, 1)+Clamp(k, 0, 1))
	return r, g, b
}

// LabToRGB converts CIE L*a*b* values (relative to D65) to RGB in the
// range [0, 1].  Out of gamut colours are clipped.
func LabToRGB(L, A, B float64) (r, g, b float64) {
	fy := (L + 16) / 116
	fx := A/500 + fy
	fz := fy - B/200

	x := labFInv(fx) * WhitePointD65[0]
	y := labFInv(fy) * WhitePointD65[1]
	z := labFInv(fz) * WhitePointD65[2]

	r = 3.2404542*x - 1.5371385*y - 0.4985314*z
	g = -0.9692660*x + 1.8760108*y + 0.0415560*z
	b = 0.0556434*x - 0.2040259*y + 1.0572252*z

	r = math.Pow(Clamp(r, 0, 1), 1/deviceGamma)
	g = math.Pow(Clamp(g, 0, 1), 1/deviceGamma)
	b = math.Pow(Clamp(b, 0, 1), 1/deviceGamma)
	return r, g, b
}

// RGBToLab converts RGB values in the range [0, 1] to CIE L*a*b* values
// relative to D65.  This is the inverse of [LabToRGB] for in-gamut colours.
func RGBToLab(r, g, b float64) (L, A, B float64) {
	r = math.Pow(Clamp(r, 0, 1), deviceGamma)
	g = math.Pow(Clamp(g, 0, 1), deviceGamma)
	b = math.Pow(Clamp(b, 0, 1), deviceGamma)

	x := (0.4124564*r + 0.3575761*g + 0.1804375*b) / WhitePointD65[0]
	y := (0.2126729*r + 0.7151522*g + 0.0721750*b) / WhitePointD65[1]
	z := (0.0193339*r + 0.1191920*g + 0.9503041*b) / WhitePointD65[2]

	fx := labF(x)
	fy := labF(y)
	fz := labF(z)

	L = 116*fy - 16
	A = 500 * (fx - fy)
	B = 200 * (fy - fz)
	return L, A, B
}

func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

func labFInv(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29.0)
}

// Clamp restricts x to the range [lo, hi].  NaN values are mapped to lo.
func Clamp[T constraints.Integer | constraints.Float](x, lo, hi T) T {
	if x >= lo && x <= hi {
		return x
	}
	if x > hi {
		return hi
	}
	return lo
}
