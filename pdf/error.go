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

package pdf

import (
	"errors"
	"strings"
)

// MalformedFileError indicates that a PDF file could not be parsed.
type MalformedFileError struct {
	Err error
	Loc []string
}

func (err *MalformedFileError) Error() string {
	parts := make([]string, 0, len(err.Loc)+2)
	parts = append(parts, "not a valid PDF file")
	for i := len(err.Loc) - 1; i >= 0; i-- {
		parts = append(parts, err.Loc[i])
	}
	if err.Err != nil {
		parts = append(parts, err.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

// Is reports whether err has the same cause as target.  Only targets
// without location information, like [ErrCycle], are matched, so that the
// sentinel is still recognised after [Wrap] has added locations.
func (err *MalformedFileError) Is(target error) bool {
	t, ok := target.(*MalformedFileError)
	if !ok || t.Err == nil || len(t.Loc) > 0 {
		return false
	}
	return err.Err == t.Err
}

// IsMalformed returns true if err indicates a syntax error in a PDF file.
func IsMalformed(err error) bool {
	var malformed *MalformedFileError
	return errors.As(err, &malformed)
}

// Wrap adds location information to an error.
// If err is a [MalformedFileError], the location is added to the existing
// list of locations.  Otherwise, err is returned unchanged.  The innermost
// location is always stored first.
func Wrap(err error, loc string) error {
	if err == nil {
		return nil
	}

	var malformed *MalformedFileError
	if !errors.As(err, &malformed) {
		return err
	}

	loc2 := make([]string, len(malformed.Loc), len(malformed.Loc)+1)
	copy(loc2, malformed.Loc)
	return &MalformedFileError{
		Err: malformed.Err,
		Loc: append(loc2, loc),
	}
}

// ErrCycle is returned when a cycle is detected in a recursive structure.
var ErrCycle = &MalformedFileError{
	Err: errors.New("cycle in recursive structure"),
}

// CycleChecker detects circular references in PDF object structures to prevent
// infinite recursion during object traversal.  It maintains a set of visited
// references and returns an error when a cycle is detected.
type CycleChecker struct {
	seen map[Reference]bool
}

// NewCycleChecker creates a new CycleChecker with an empty set of seen references.
func NewCycleChecker() *CycleChecker {
	return &CycleChecker{seen: make(map[Reference]bool)}
}

// Check examines the given PDF object for circular references.  If the object
// is not a reference (i.e., it's a direct value), Check returns nil immediately.
// If the object is a reference that has already been seen by this CycleChecker,
// Check returns ErrCycle.  Otherwise, Check marks the reference as seen and
// returns nil.
func (s *CycleChecker) Check(obj Object) error {
	ref, ok := obj.(Reference)
	if !ok {
		return nil
	}
	if s.seen[ref] {
		return ErrCycle
	}
	s.seen[ref] = true
	return nil
}
