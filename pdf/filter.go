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
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/pdfcolor/internal/filter/asciihex"
	"seehuhn.de/go/pdfcolor/internal/filter/predict"
	"seehuhn.de/go/pdfcolor/internal/filter/runlength"
)

// GetStreamReader returns a reader for the decoded data of the stream s.
// The filters listed in the /Filter entry of the stream dictionary are
// applied in order.  The caller must close the returned reader.
func GetStreamReader(r Getter, s *Stream) (io.ReadCloser, error) {
	if s == nil {
		return nil, errors.New("missing stream")
	}

	filters, err := streamFilters(r, s.Dict)
	if err != nil {
		return nil, err
	}

	var res io.Reader = s.R
	var closers []io.Closer
	for _, f := range filters {
		switch f.name {
		case "FlateDecode", "Fl":
			zr, err := zlib.NewReader(res)
			if err != nil {
				closeAll(closers)
				return nil, Wrap(&MalformedFileError{Err: err}, "FlateDecode")
			}
			closers = append(closers, zr)
			res, err = predict.NewReader(zr, predictParams(f.parms))
			if err != nil {
				closeAll(closers)
				return nil, Wrap(&MalformedFileError{Err: err}, "DecodeParms")
			}
		case "ASCIIHexDecode", "AHx":
			hr := asciihex.Decode(res)
			closers = append(closers, hr)
			res = hr
		case "RunLengthDecode", "RL":
			rr := runlength.Decode(res)
			closers = append(closers, rr)
			res = rr
		default:
			closeAll(closers)
			return nil, fmt.Errorf("unsupported filter %q", f.name)
		}
	}

	return &streamReader{Reader: res, closers: closers}, nil
}

type filterSpec struct {
	name  Name
	parms Dict
}

// streamFilters returns the filters of a stream, together with their
// decode parameters.
func streamFilters(r Getter, dict Dict) ([]filterSpec, error) {
	filter, err := Resolve(r, dict["Filter"])
	if err != nil {
		return nil, err
	}
	parms, err := Resolve(r, dict["DecodeParms"])
	if err != nil {
		return nil, err
	}

	var names []Object
	switch filter := filter.(type) {
	case nil:
		return nil, nil
	case Name:
		names = []Object{filter}
		parms = Array{parms}
	case Array:
		names = filter
	default:
		return nil, &MalformedFileError{
			Err: fmt.Errorf("invalid /Filter entry %s", Format(filter)),
		}
	}
	parmsArray, _ := parms.(Array)

	res := make([]filterSpec, len(names))
	for i, obj := range names {
		res[i].name, err = GetName(r, obj)
		if err != nil {
			return nil, err
		}
		if i < len(parmsArray) {
			res[i].parms, err = GetDict(r, parmsArray[i])
			if err != nil {
				return nil, Wrap(err, "DecodeParms")
			}
		}
	}
	return res, nil
}

// predictParams reads the predictor entries of a decode parameter
// dictionary, using the default values for missing entries.
func predictParams(parms Dict) *predict.Params {
	p := &predict.Params{
		Predictor:        1,
		Colors:           1,
		BitsPerComponent: 8,
		Columns:          1,
	}
	if x, ok := parms["Predictor"].(Integer); ok {
		p.Predictor = int(x)
	}
	if x, ok := parms["Colors"].(Integer); ok {
		p.Colors = int(x)
	}
	if x, ok := parms["BitsPerComponent"].(Integer); ok {
		p.BitsPerComponent = int(x)
	}
	if x, ok := parms["Columns"].(Integer); ok {
		p.Columns = int(x)
	}
	return p
}

type streamReader struct {
	io.Reader
	closers []io.Closer
}

func (r *streamReader) Close() error {
	return closeAll(r.closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		errs = append(errs, closers[i].Close())
	}
	return errors.Join(errs...)
}
