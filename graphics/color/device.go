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

package color

import "seehuhn.de/go/pdfcolor/internal/colconv"

// The device color spaces.  These have static lifetime; their Retain and
// Release methods do nothing.
var (
	DeviceGray Space = deviceSpace(KindDeviceGray)
	DeviceRGB  Space = deviceSpace(KindDeviceRGB)
	DeviceCMYK Space = deviceSpace(KindDeviceCMYK)
	DeviceLab  Space = deviceSpace(KindDeviceLab)
)

type deviceSpace Kind

// Kind implements the [Space] interface.
func (s deviceSpace) Kind() Kind {
	return Kind(s)
}

// Channels implements the [Space] interface.
func (s deviceSpace) Channels() int {
	switch Kind(s) {
	case KindDeviceGray:
		return 1
	case KindDeviceCMYK:
		return 4
	default:
		return 3
	}
}

// ToRGB implements the [Space] interface.
func (s deviceSpace) ToRGB(x []float64) RGB {
	var r, g, b float64
	switch Kind(s) {
	case KindDeviceGray:
		r, g, b = colconv.GrayToRGB(component(x, 0))
	case KindDeviceRGB:
		r = colconv.Clamp(component(x, 0), 0, 1)
		g = colconv.Clamp(component(x, 1), 0, 1)
		b = colconv.Clamp(component(x, 2), 0, 1)
	case KindDeviceCMYK:
		r, g, b = colconv.CMYKToRGB(component(x, 0), component(x, 1), component(x, 2), component(x, 3))
	case KindDeviceLab:
		r, g, b = colconv.LabToRGB(component(x, 0), component(x, 1), component(x, 2))
	}
	return RGB{R: r, G: g, B: b}
}

// Retain implements the [Space] interface.
func (s deviceSpace) Retain() Space {
	return s
}

// Release implements the [Space] interface.
func (s deviceSpace) Release() {}

func (s deviceSpace) String() string {
	return Kind(s).String()
}
