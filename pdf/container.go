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
	"fmt"
)

// Getter provides access to the indirect objects of a PDF file.
type Getter interface {
	// Get returns the object with the given reference.  A reference to an
	// object which does not exist is not an error: in this case, Get
	// returns the null object, i.e. nil.
	Get(Reference) (Object, error)
}

// maxRefDepth limits the length of chains of references which are followed
// by [Resolve].
const maxRefDepth = 16

// Resolve resolves references to indirect objects.
//
// If obj is a [Reference], the function reads the corresponding object from
// the file and returns the result.  If obj is not a [Reference], it is
// returned unchanged.  The function recursively follows chains of references
// until it resolves to a non-reference object.
//
// If a reference loop is encountered, the function returns an error of type
// [MalformedFileError].
func Resolve(r Getter, obj Object) (Object, error) {
	origObj := obj

	count := 0
	for {
		ref, isReference := obj.(Reference)
		if !isReference {
			break
		}
		count++
		if count > maxRefDepth {
			return nil, &MalformedFileError{
				Err: errors.New("too many levels of indirection"),
				Loc: []string{"object " + origObj.(Reference).String()},
			}
		}

		var err error
		obj, err = r.Get(ref)
		if err != nil {
			return nil, err
		}
	}

	return obj, nil
}

// ResolveChain is like [Resolve], but additionally returns all references
// which were followed to reach the final object, in order.
func ResolveChain(r Getter, obj Object) (Object, []Reference, error) {
	var refs []Reference
	for {
		ref, isReference := obj.(Reference)
		if !isReference {
			break
		}
		if len(refs) >= maxRefDepth {
			return nil, refs, &MalformedFileError{
				Err: errors.New("too many levels of indirection"),
				Loc: []string{"object " + refs[0].String()},
			}
		}
		refs = append(refs, ref)

		var err error
		obj, err = r.Get(ref)
		if err != nil {
			return nil, refs, err
		}
	}
	return obj, refs, nil
}

func resolveAndCast[T Object](r Getter, obj Object) (x T, err error) {
	obj, err = Resolve(r, obj)
	if err != nil {
		return x, err
	}

	if obj == nil {
		return x, nil
	}

	var isCorrectType bool
	x, isCorrectType = obj.(T)
	if isCorrectType {
		return x, nil
	}

	return x, &MalformedFileError{
		Err: fmt.Errorf("expected %T but got %T", x, obj),
	}
}

// Helper functions for getting objects of a specific type.  Each of these
// functions calls Resolve on the object before attempting to convert it to the
// desired type.  If the object is `null`, a zero object is returned without
// error.  If the object is of the wrong type, an error is returned.
//
// The signature of these functions is
//
//	func GetT(r Getter, obj Object) (x T, err error)
//
// where T is the type of the object to be returned.
var (
	GetArray   = resolveAndCast[Array]
	GetBool    = resolveAndCast[Bool]
	GetDict    = resolveAndCast[Dict]
	GetInteger = resolveAndCast[Integer]
	GetName    = resolveAndCast[Name]
	GetReal    = resolveAndCast[Real]
	GetStream  = resolveAndCast[*Stream]
	GetString  = resolveAndCast[String]
)

// GetNumber resolves obj and returns its value as a float64.
// Both Integer and Real objects are accepted.  A null object gives 0.
func GetNumber(r Getter, obj Object) (float64, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	switch x := obj.(type) {
	case nil:
		return 0, nil
	case Integer:
		return float64(x), nil
	case Real:
		return float64(x), nil
	default:
		return 0, &MalformedFileError{
			Err: fmt.Errorf("expected number but got %T", obj),
		}
	}
}

// GetDictOrStream returns the dictionary of obj, which may be a
// dictionary or a stream.  If obj is a stream, the stream is returned
// as well.
func GetDictOrStream(r Getter, obj Object) (Dict, *Stream, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return nil, nil, err
	}
	switch x := obj.(type) {
	case nil:
		return nil, nil, nil
	case Dict:
		return x, nil, nil
	case *Stream:
		return x.Dict, x, nil
	default:
		return nil, nil, &MalformedFileError{
			Err: fmt.Errorf("expected dictionary or stream but got %T", obj),
		}
	}
}

// ToInt converts obj to an integer, without following references.
// Integers are returned unchanged, reals are truncated towards zero, and
// all other objects give 0.
func ToInt(obj Object) int64 {
	switch x := obj.(type) {
	case Integer:
		return int64(x)
	case Real:
		return int64(x)
	default:
		return 0
	}
}
