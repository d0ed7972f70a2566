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
	"fmt"
	"image"
	"io"
	"strings"

	xdraw "golang.org/x/image/draw"

	"seehuhn.de/go/pdfcolor/graphics/color"
)

// rampSteps is the number of colors shown for each component ramp.
const rampSteps = 11

// samples returns the color values to display for s.  Indexed spaces
// show their palette, all other spaces show a ramp for each component
// with the remaining components at zero.
func samples(s color.Space) [][]float64 {
	if idx, ok := s.(*color.SpaceIndexed); ok {
		res := make([][]float64, idx.HiVal+1)
		for i := range res {
			res[i] = []float64{float64(i)}
		}
		return res
	}

	n := s.Channels()
	var res [][]float64
	for i := range n {
		lo, hi := 0.0, 1.0
		if s.Kind() == color.KindDeviceLab {
			lo, hi = -100, 100
			if i == 0 {
				lo = 0
			}
		}
		for k := range rampSteps {
			x := make([]float64, n)
			x[i] = lo + (hi-lo)*float64(k)/(rampSteps-1)
			res = append(res, x)
		}
	}
	return res
}

func printSpace(w io.Writer, s color.Space) {
	fmt.Fprintf(w, "%s, %d channels\n", s.Kind(), s.Channels())
	switch s := s.(type) {
	case *color.SpaceIndexed:
		fmt.Fprintf(w, "base %v, %d palette entries\n", s.Base, s.HiVal+1)
	case *color.SpaceTint:
		names := make([]string, len(s.Names))
		for i, name := range s.Names {
			names[i] = "/" + string(name)
		}
		fmt.Fprintf(w, "colorants %s, alternate %v\n", strings.Join(names, " "), s.Base)
	}
}

func printSamples(w io.Writer, s color.Space, values [][]float64, useANSI bool) {
	for _, x := range values {
		c := s.ToRGB(x)
		if useANSI {
			fmt.Fprint(w, ansiSwatch(c), " ")
		}
		fmt.Fprintf(w, "%s  %s\n", c, formatValues(x))
	}
}

func formatValues(x []float64) string {
	parts := make([]string, len(x))
	for i, xi := range x {
		parts[i] = fmt.Sprintf("%.3g", xi)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ansiSwatch returns a block of two spaces with c as 24-bit background
// color.
func ansiSwatch(c color.RGB) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", r>>8, g>>8, b>>8)
}

// swatch returns an image with one square of the given size for each color,
// arranged in rows of at most rampSteps squares.
func swatch(colors []color.RGB, size int) image.Image {
	cols := min(len(colors), rampSteps)
	rows := (len(colors) + rampSteps - 1) / rampSteps
	if cols == 0 {
		cols, rows = 1, 1
	}

	small := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for i, c := range colors {
		small.Set(i%rampSteps, i/rampSteps, c)
	}

	img := image.NewRGBA(image.Rect(0, 0, cols*size, rows*size))
	xdraw.NearestNeighbor.Scale(img, img.Bounds(), small, small.Bounds(), xdraw.Src, nil)
	return img
}
