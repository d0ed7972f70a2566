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
	"errors"
	"strings"
)

// These errors classify the failures of [Resolver.Resolve].
// Use [errors.Is] to test for them.
var (
	// ErrSyntax indicates a malformed color space descriptor.
	ErrSyntax = errors.New("malformed color space")

	// ErrCycle indicates a color space which refers back to itself.
	ErrCycle = errors.New("cyclic color space")

	// ErrComponentLimit indicates a Separation or DeviceN color space with
	// more than [MaxComponents] components.
	ErrComponentLimit = errors.New("too many color components")

	// ErrResourceLoad indicates that an object, stream or function needed
	// by a color space could not be loaded.
	ErrResourceLoad = errors.New("cannot load color space resource")
)

// Error describes a failure to resolve a color space descriptor.
type Error struct {
	// Kind is one of ErrSyntax, ErrCycle, ErrComponentLimit and
	// ErrResourceLoad.
	Kind error

	// Desc is the descriptor which failed to resolve, in PDF syntax.
	Desc string

	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	parts := []string{e.Kind.Error()}
	if e.Desc != "" {
		parts = append(parts, e.Desc)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}
