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
	"fmt"
	"io"

	"seehuhn.de/go/icc"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfcolor/pdf"
)

// maxProfileSize is the maximal size of an ICC profile which is read to
// infer the number of components.
const maxProfileSize = 1 << 24

// buildICCBased builds a color space from the descriptor [/ICCBased stream].
//
// ICC based color spaces are not represented directly.  Instead, the
// alternate color space is used if it has the correct number of components,
// and otherwise the device color space with the same number of components.
func (res *Resolver) buildICCBased(desc pdf.Object, a pdf.Array) (Space, error) {
	if len(a) < 2 {
		return nil, syntaxError(desc, "missing ICC profile stream")
	}
	stm, err := pdf.GetStream(res.r, a[1])
	if pdf.IsMalformed(err) {
		return nil, &Error{Kind: ErrSyntax, Desc: describe(desc), Err: err}
	} else if err != nil {
		return nil, loadError(desc, err)
	} else if stm == nil {
		return nil, syntaxError(desc, "missing ICC profile stream")
	}

	n, err := res.iccChannels(stm)
	if err != nil {
		return nil, loadError(desc, err)
	}

	if alt := stm.Dict["Alternate"]; alt != nil {
		// Any problem with the alternate selects the default space below.
		s, err := res.resolve(alt)
		if err == nil {
			if s.Channels() == n {
				return s, nil
			}
			s.Release()
		}
	}

	switch n {
	case 1:
		return DeviceGray, nil
	case 3:
		return DeviceRGB, nil
	case 4:
		return DeviceCMYK, nil
	}
	return nil, syntaxError(desc, "invalid number of ICC components %d", n)
}

// iccChannels returns the value of /N in the ICC stream dictionary.
// If /N is missing, the number of components is read from the embedded
// profile instead.  Unreadable profiles give 0.
func (res *Resolver) iccChannels(stm *pdf.Stream) (int, error) {
	nObj, err := pdf.Resolve(res.r, stm.Dict["N"])
	if err != nil {
		return 0, err
	}
	if nObj != nil || res.noInfer {
		return int(pdf.ToInt(nObj)), nil
	}

	p, _, err := readProfile(res.r, stm)
	if err != nil {
		return 0, nil
	}
	return p.ColorSpace.NumComponents(), nil
}

// readProfile decodes the ICC profile stored in stm.
// The raw profile data is returned alongside the decoded profile.
func readProfile(r pdf.Getter, stm *pdf.Stream) (*icc.Profile, []byte, error) {
	body, err := pdf.GetStreamReader(r, stm)
	if err != nil {
		return nil, nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxProfileSize))
	if err != nil {
		return nil, nil, err
	}
	p, err := icc.Decode(data)
	if err != nil {
		return nil, data, err
	}
	return p, data, nil
}

// ICCInfo describes the ICC profile stream of an ICCBased color space.
type ICCInfo struct {
	// N is the value of /N in the stream dictionary, or 0 if missing.
	N int

	// Alternate is the /Alternate entry of the stream dictionary, or nil.
	Alternate pdf.Object

	// ProfileSpace is the color space of the profile data, for example
	// "RGB".  This is empty if the profile could not be decoded.
	ProfileSpace string

	// ProfileChannels is the number of components of ProfileSpace.
	ProfileChannels int

	// Version is the profile version from the header, for example "4.3.0".
	Version string

	// Class is the four-character profile class from the header,
	// for example "mntr".
	Class string

	// Metadata is the XMP packet from the /Metadata entry of the
	// stream dictionary, or nil if there is none.
	Metadata *xmp.Packet
}

// InspectICC reads the ICC profile stream of the ICCBased color space desc.
//
// Profiles which cannot be decoded are not an error; in this case only the
// information from the stream dictionary is filled in.  A damaged
// /Metadata stream is an error.
func InspectICC(r pdf.Getter, desc pdf.Object) (*ICCInfo, error) {
	a, err := pdf.GetArray(r, desc)
	if err != nil {
		return nil, err
	}
	if len(a) < 2 {
		return nil, syntaxError(desc, "not an ICCBased color space")
	}
	family, err := pdf.GetName(r, a[0])
	if err != nil {
		return nil, err
	}
	if family != "ICCBased" {
		return nil, syntaxError(desc, "not an ICCBased color space")
	}
	stm, err := pdf.GetStream(r, a[1])
	if err != nil {
		return nil, err
	} else if stm == nil {
		return nil, syntaxError(desc, "missing ICC profile stream")
	}

	n, err := pdf.GetInteger(r, stm.Dict["N"])
	if err != nil {
		return nil, err
	}
	info := &ICCInfo{
		N:         int(n),
		Alternate: stm.Dict["Alternate"],
	}

	p, data, err := readProfile(r, stm)
	if p != nil {
		info.ProfileSpace = fmt.Sprint(p.ColorSpace)
		info.ProfileChannels = p.ColorSpace.NumComponents()
	} else if err != nil && data == nil {
		return nil, loadError(desc, err)
	}
	if len(data) >= 16 {
		info.Version = fmt.Sprintf("%d.%d.%d", data[8], data[9]>>4, data[9]&15)
		info.Class = string(data[12:16])
	}

	info.Metadata, err = readMetadata(r, stm.Dict["Metadata"])
	if err != nil {
		return nil, loadError(desc, err)
	}

	return info, nil
}

func readMetadata(r pdf.Getter, obj pdf.Object) (*xmp.Packet, error) {
	stm, err := pdf.GetStream(r, obj)
	if err != nil {
		return nil, err
	} else if stm == nil {
		return nil, nil
	}

	body, err := pdf.GetStreamReader(r, stm)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	packet, err := xmp.Read(body)
	if err != nil {
		return nil, errors.Join(errMetadata, err)
	}
	return packet, nil
}

var errMetadata = errors.New("invalid XMP metadata")
