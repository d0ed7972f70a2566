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

// Package function implements PDF functions, which are parameterized
// mathematical transformations that map m input values to n output values.
//
// The following function types are supported:
//
//   - [Type0]: sampled functions, using a table of sample values with
//     multilinear interpolation
//   - [Type2]: exponential interpolation functions, y = C0 + x^N × (C1 - C0)
//   - [Type3]: stitching functions, combining several 1-input functions
//     across subdomains
//   - [Type4]: PostScript calculator functions
//
// Functions are read from a PDF file using [Read] or, when the caller
// expects a particular number of inputs and outputs, using [Load].
package function
