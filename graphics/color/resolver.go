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

	"seehuhn.de/go/pdfcolor/pdf"
)

// ResolverOptions controls the behaviour of a [Resolver].
type ResolverOptions struct {
	// MaxNesting is the maximal nesting depth of color spaces which have
	// other color spaces as parameters.  Deeper nesting is reported as
	// ErrSyntax.  If this is 0, a default of 64 is used.
	MaxNesting int

	// NoProfileInference disables reading the number of components of an
	// ICCBased color space from the embedded profile, when the /N entry of
	// the stream dictionary is missing.
	NoProfileInference bool
}

const defaultMaxNesting = 64

// Resolver resolves color space descriptors read from a PDF file.
//
// A Resolver caches the color spaces it has built, keyed by the identity
// of the descriptor.  The cache holds a reference to each color space,
// which is released by [Resolver.Close].
//
// A Resolver has no internal locking and must not be used concurrently
// from several goroutines.  The color spaces returned by Resolve can be
// used and released from any goroutine.
type Resolver struct {
	r          pdf.Getter
	maxNesting int
	noInfer    bool

	cache    map[identity]Space
	inFlight map[identity]bool
	depth    int
}

// identity identifies a color space descriptor.  A descriptor is either
// identified by a reference pointing to it, or by the storage of its
// array elements.
type identity struct {
	ref   pdf.Reference
	first *pdf.Object
}

// NewResolver creates a new resolution session, which reads objects
// from r.  If opt is nil, default options are used.
func NewResolver(r pdf.Getter, opt *ResolverOptions) *Resolver {
	if opt == nil {
		opt = &ResolverOptions{}
	}
	maxNesting := opt.MaxNesting
	if maxNesting <= 0 {
		maxNesting = defaultMaxNesting
	}
	return &Resolver{
		r:          r,
		maxNesting: maxNesting,
		noInfer:    opt.NoProfileInference,
		cache:      make(map[identity]Space),
		inFlight:   make(map[identity]bool),
	}
}

// Resolve converts a color space descriptor into a color space.
//
// The descriptor can be a name, like /DeviceRGB, an array, like
// [/Indexed /DeviceRGB 15 <...>], or a reference to one of these.
// The caller must release the returned color space when it is no longer
// needed.
//
// Errors are of type [*Error] and match one of [ErrSyntax], [ErrCycle],
// [ErrComponentLimit] and [ErrResourceLoad].
func (res *Resolver) Resolve(desc pdf.Object) (Space, error) {
	if res.cache == nil {
		panic("color: Resolve called after Close")
	}
	return res.resolve(desc)
}

func (res *Resolver) resolve(desc pdf.Object) (Space, error) {
	obj, refs, err := pdf.ResolveChain(res.r, desc)
	if pdf.IsMalformed(err) {
		return nil, &Error{Kind: ErrSyntax, Desc: describe(desc), Err: err}
	} else if err != nil {
		return nil, loadError(desc, err)
	}

	keys := make([]identity, 0, len(refs)+1)
	for _, ref := range refs {
		keys = append(keys, identity{ref: ref})
	}
	if a, isArray := obj.(pdf.Array); isArray && len(a) > 0 {
		keys = append(keys, identity{first: &a[0]})
	}

	for _, key := range keys {
		if s, ok := res.cache[key]; ok {
			return s.Retain(), nil
		}
	}
	for _, key := range keys {
		if res.inFlight[key] {
			return nil, &Error{Kind: ErrCycle, Desc: describe(desc), Err: pdf.ErrCycle}
		}
	}

	switch obj := obj.(type) {
	case pdf.Name:
		if s, ok := deviceNames[obj]; ok {
			return s, nil
		}
		return nil, syntaxError(desc, "unknown color space name")

	case pdf.Array:
		if len(obj) == 0 {
			return nil, syntaxError(desc, "empty array")
		}
		family, err := pdf.GetName(res.r, obj[0])
		if pdf.IsMalformed(err) {
			return nil, &Error{Kind: ErrSyntax, Desc: describe(desc), Err: err}
		} else if err != nil {
			return nil, loadError(desc, err)
		}

		if s, ok := arrayAliases[family]; ok {
			return s, nil
		}
		build, ok := builders[family]
		if !ok {
			return nil, syntaxError(desc, "unknown color space family /%s", family)
		}

		if res.depth >= res.maxNesting {
			return nil, syntaxError(desc, "color spaces nested too deeply")
		}
		for _, key := range keys {
			res.inFlight[key] = true
		}
		res.depth++
		defer func() {
			res.depth--
			for _, key := range keys {
				delete(res.inFlight, key)
			}
		}()

		s, err := build(res, desc, obj)
		if err != nil {
			return nil, err
		}

		if RefCount(s) > 0 {
			for _, key := range keys {
				res.cache[key] = s.Retain()
			}
		}
		return s, nil

	default:
		return nil, syntaxError(desc, "expected name or array, got %T", obj)
	}
}

// Len returns the number of entries in the cache.
func (res *Resolver) Len() int {
	return len(res.cache)
}

// Close releases all color spaces held by the cache.
// The Resolver must not be used after Close has been called.
func (res *Resolver) Close() {
	for _, s := range res.cache {
		s.Release()
	}
	res.cache = nil
}

// deviceNames maps the color space names which can be used on their own
// to the corresponding device color spaces.
var deviceNames = map[pdf.Name]Space{
	"DeviceGray": DeviceGray,
	"G":          DeviceGray,
	"CalGray":    DeviceGray,
	"Pattern":    DeviceGray,
	"DeviceRGB":  DeviceRGB,
	"RGB":        DeviceRGB,
	"CalRGB":     DeviceRGB,
	"DeviceCMYK": DeviceCMYK,
	"CMYK":       DeviceCMYK,
	"CalCMYK":    DeviceCMYK,
	"Lab":        DeviceLab,
}

// arrayAliases maps the families of array descriptors which resolve to a
// device color space.  The remaining array elements are ignored.
var arrayAliases = map[pdf.Name]Space{
	"DeviceGray": DeviceGray,
	"G":          DeviceGray,
	"CalGray":    DeviceGray,
	"DeviceRGB":  DeviceRGB,
	"RGB":        DeviceRGB,
	"CalRGB":     DeviceRGB,
	"DeviceCMYK": DeviceCMYK,
	"CMYK":       DeviceCMYK,
	"CalCMYK":    DeviceCMYK,
	"Lab":        DeviceLab,
}

type builder func(res *Resolver, desc pdf.Object, a pdf.Array) (Space, error)

// builders maps the families of color spaces with parameters to the
// functions which construct them.
var builders map[pdf.Name]builder

func init() {
	builders = map[pdf.Name]builder{
		"ICCBased":   (*Resolver).buildICCBased,
		"Indexed":    (*Resolver).buildIndexed,
		"I":          (*Resolver).buildIndexed,
		"Separation": (*Resolver).buildTint,
		"DeviceN":    (*Resolver).buildTint,
		"Pattern":    (*Resolver).buildPattern,
	}
}

// buildPattern resolves [/Pattern] and [/Pattern base].
func (res *Resolver) buildPattern(desc pdf.Object, a pdf.Array) (Space, error) {
	if len(a) < 2 {
		return DeviceGray, nil
	}
	return res.resolve(a[1])
}

func syntaxError(desc pdf.Object, format string, args ...any) error {
	return &Error{
		Kind: ErrSyntax,
		Desc: describe(desc),
		Err:  &pdf.MalformedFileError{Err: fmt.Errorf(format, args...)},
	}
}

func loadError(desc pdf.Object, err error) error {
	return &Error{
		Kind: ErrResourceLoad,
		Desc: describe(desc),
		Err:  err,
	}
}

// describe formats a descriptor for use in error messages.
func describe(desc pdf.Object) string {
	const maxLen = 60
	s := pdf.Format(desc)
	if len(s) > maxLen {
		s = s[:maxLen-3] + "..."
	}
	return s
}
