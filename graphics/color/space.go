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

import (
	"fmt"
	"math"
	"sync/atomic"
)

// MaxComponents is the maximal number of components of a color space.
const MaxComponents = 32

// Kind identifies the type of a resolved color space.
type Kind uint8

// These are the possible kinds of color spaces.
// ICCBased and Pattern color spaces resolve to one of these.
const (
	KindDeviceGray Kind = iota + 1
	KindDeviceRGB
	KindDeviceCMYK
	KindDeviceLab
	KindIndexed
	KindSeparation
	KindDeviceN
)

func (k Kind) String() string {
	switch k {
	case KindDeviceGray:
		return "DeviceGray"
	case KindDeviceRGB:
		return "DeviceRGB"
	case KindDeviceCMYK:
		return "DeviceCMYK"
	case KindDeviceLab:
		return "Lab"
	case KindIndexed:
		return "Indexed"
	case KindSeparation:
		return "Separation"
	case KindDeviceN:
		return "DeviceN"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Space is a resolved color space.
//
// The implementations of Space are the device color spaces [DeviceGray],
// [DeviceRGB], [DeviceCMYK] and [DeviceLab], together with [*SpaceIndexed]
// and [*SpaceTint].
type Space interface {
	// Kind returns the type of the color space.
	Kind() Kind

	// Channels returns the number of components of a color value.
	Channels() int

	// ToRGB converts a color value to RGB.  Missing components are
	// treated as zero, extra components are ignored.
	ToRGB(x []float64) RGB

	// Retain increments the reference count of the color space and
	// returns the color space.
	Retain() Space

	// Release decrements the reference count.  Once the count reaches
	// zero, the color space releases its base color space and must no
	// longer be used.
	Release()
}

// IsTint reports whether s is a Separation or DeviceN color space.
func IsTint(s Space) bool {
	k := s.Kind()
	return k == KindSeparation || k == KindDeviceN
}

// RefCount returns the current reference count of s.
// The result is 0 for the device color spaces, which are not reference
// counted.
func RefCount(s Space) int {
	switch s := s.(type) {
	case *SpaceIndexed:
		return int(s.refs.Load())
	case *SpaceTint:
		return int(s.refs.Load())
	default:
		return 0
	}
}

// RGB is a color in the RGB color space.  The components are in the range
// [0, 1].  RGB implements the [image/color.Color] interface.
type RGB struct {
	R, G, B float64
}

// RGBA implements the [image/color.Color] interface.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return to16(c.R), to16(c.G), to16(c.B), 0xffff
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", to16(c.R)>>8, to16(c.G)>>8, to16(c.B)>>8)
}

func to16(x float64) uint32 {
	if !(x > 0) {
		return 0
	} else if x >= 1 {
		return 0xffff
	}
	return uint32(math.Round(x * 0xffff))
}

// refCount is the reference counter shared by the non-device color spaces.
type refCount struct {
	refs atomic.Int32
}

// decRef decrements the counter and reports whether it reached zero.
func (c *refCount) decRef() bool {
	n := c.refs.Add(-1)
	if n < 0 {
		panic("color: color space released too often")
	}
	return n == 0
}

// component returns x[i], or 0 if x is too short.
func component(x []float64, i int) float64 {
	if i < len(x) {
		return x[i]
	}
	return 0
}

// componentRange returns the range onto which the byte values 0, ..., 255
// of a palette entry are mapped, for component i of s.  For Indexed spaces
// the byte value is the palette index.
func componentRange(s Space, i int) (lo, hi float64) {
	switch s.Kind() {
	case KindIndexed:
		return 0, 255
	case KindDeviceLab:
		if i == 0 {
			return 0, 100
		}
		return -100, 100
	default:
		return 0, 1
	}
}
