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

// Package color resolves PDF color space descriptors into shareable color
// space objects which convert color values to RGB.
//
// A [Resolver] holds the state of one resolution session: a cache which
// maps descriptor identities to resolved color spaces, and the set of
// descriptors currently being resolved, which is used to reject cyclic
// descriptor graphs.  The following color space families are supported:
//
//   - the device color spaces DeviceGray, DeviceRGB and DeviceCMYK, together
//     with their abbreviations and the CIE-based families CalGray, CalRGB,
//     CalCMYK and Lab, which are mapped to the corresponding device space
//   - ICCBased, which resolves to the alternate color space or to the device
//     space with the same number of components
//   - Indexed, a palette of colors in a base color space
//   - Separation and DeviceN, which map tint values to a base color space
//     using a PDF function
//   - Pattern, which resolves to the underlying color space
//
// Color spaces other than the device spaces are reference counted.  Every
// successful call to [Resolver.Resolve] returns a reference which the
// caller must release using [Space.Release].
package color
