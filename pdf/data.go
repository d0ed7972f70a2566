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
	"bytes"
	"io"
	"maps"
	"slices"
)

// Data is an in-memory collection of indirect PDF objects.
// Data implements the [Getter] interface.
type Data struct {
	objects map[Reference]Object
	lastRef uint32
}

// NewData returns a new, empty Data object.
func NewData() *Data {
	return &Data{
		objects: map[Reference]Object{},
	}
}

// Alloc allocates a new object number for an indirect object.
func (d *Data) Alloc() Reference {
	for {
		d.lastRef++
		ref := NewReference(d.lastRef, 0)
		if _, ok := d.objects[ref]; !ok {
			return ref
		}
	}
}

// Get returns the object with the given reference.
// If the object is a stream with a seekable reader, the reader is rewound
// to the start of the stream data.
// This implements the [Getter] interface.
func (d *Data) Get(ref Reference) (Object, error) {
	obj := d.objects[ref]
	if s, ok := obj.(*Stream); ok {
		if ss, ok := s.R.(io.Seeker); ok {
			_, err := ss.Seek(0, io.SeekStart)
			if err != nil {
				return nil, err
			}
		}
	}
	return obj, nil
}

// Put stores obj under the given reference.  Storing nil deletes the object.
func (d *Data) Put(ref Reference, obj Object) {
	if obj == nil {
		delete(d.objects, ref)
	} else {
		d.objects[ref] = obj
	}
	if n := ref.Number(); n > d.lastRef {
		d.lastRef = n
	}
}

// PutStream stores a stream with the given dictionary and (encoded) data.
// The /Length entry of the dictionary is set automatically.
func (d *Data) PutStream(ref Reference, dict Dict, data []byte) {
	streamDict := maps.Clone(dict)
	if streamDict == nil {
		streamDict = Dict{}
	}
	streamDict["Length"] = Integer(len(data))
	d.Put(ref, &Stream{
		Dict: streamDict,
		R:    bytes.NewReader(data),
	})
}

// References returns the references of all objects in d, in increasing order.
func (d *Data) References() []Reference {
	return slices.SortedFunc(maps.Keys(d.objects), func(a, b Reference) int {
		if a.Number() != b.Number() {
			return int(a.Number()) - int(b.Number())
		}
		return int(a.Generation()) - int(b.Generation())
	})
}
