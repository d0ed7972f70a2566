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

// Package predict reverses the TIFF and PNG predictors which can be applied
// to the data of FlateDecode streams.
package predict

import (
	"errors"
	"fmt"
)

const maxColumns = 1 << 20

// Params are the predictor entries of a /DecodeParms dictionary.
type Params struct {
	// Predictor is 1 for no prediction, 2 for TIFF horizontal
	// differencing, and 10 to 15 for PNG row filters.
	Predictor int

	// Colors is the number of components per sample.
	Colors int

	// BitsPerComponent is one of 1, 2, 4, 8 or 16.
	BitsPerComponent int

	// Columns is the number of samples per row.
	Columns int
}

// Validate checks that p describes a supported predictor.
func (p *Params) Validate() error {
	switch {
	case p.Predictor == 1:
		return nil
	case p.Predictor == 2:
		if p.Colors < 1 || p.Colors > 60 {
			return fmt.Errorf("invalid /Colors %d for TIFF predictor", p.Colors)
		}
	case p.Predictor >= 10 && p.Predictor <= 15:
		if p.Colors < 1 || p.Colors > 256 {
			return fmt.Errorf("invalid /Colors %d for PNG predictor", p.Colors)
		}
	default:
		return fmt.Errorf("unsupported predictor %d", p.Predictor)
	}

	switch p.BitsPerComponent {
	case 1, 2, 4, 8, 16:
	default:
		return fmt.Errorf("invalid /BitsPerComponent %d", p.BitsPerComponent)
	}

	if p.Columns < 1 || p.Columns > maxColumns {
		return errors.New("invalid /Columns value")
	}
	return nil
}

// rowBytes returns the number of data bytes in a row, excluding the PNG
// tag byte.
func (p *Params) rowBytes() int {
	return (p.Colors*p.BitsPerComponent*p.Columns + 7) / 8
}

// pixelBytes returns the distance used by the PNG filters to find the
// left neighbour of a byte.
func (p *Params) pixelBytes() int {
	return (p.Colors*p.BitsPerComponent + 7) / 8
}
