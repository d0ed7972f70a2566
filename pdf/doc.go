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

// Package pdf implements the PDF object model used by the color space
// resolver.
//
// The following types implement the native PDF object types.
// All of these implement the [Object] interface:
//
//	Array
//	Bool
//	Dict
//	Integer
//	Name
//	Real
//	Reference
//	*Stream
//	String
//
// Objects are read through a [Getter], which resolves references to
// indirect objects.  [Data] is an in-memory Getter; [ReadObjects] fills a
// Data value from a sequence of indirect objects in PDF syntax:
//
//	data, err := pdf.ReadObjects(r)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	obj, err := pdf.Resolve(data, pdf.NewReference(7, 0))
//
// Stream contents, with all filters applied, are available via
// [GetStreamReader].
package pdf
