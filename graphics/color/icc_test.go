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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
	"seehuhn.de/go/icc"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfcolor/pdf"
)

func TestICCInference(t *testing.T) {
	for _, profile := range [][]byte{icc.SRGBv2Profile, icc.SRGBv4Profile} {
		data := pdf.NewData()
		stmRef := data.Alloc()
		data.PutStream(stmRef, nil, profile)
		desc := pdf.Array{pdf.Name("ICCBased"), stmRef}

		res := NewResolver(data, nil)
		s, err := res.Resolve(desc)
		if err != nil {
			t.Fatal(err)
		}
		if s != DeviceRGB {
			t.Errorf("got %v, want DeviceRGB", s)
		}
		res.Close()

		res = NewResolver(data, &ResolverOptions{NoProfileInference: true})
		_, err = res.Resolve(desc)
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("without inference: got %v, want ErrSyntax", err)
		}
		res.Close()
	}
}

func TestICCInferenceBadProfile(t *testing.T) {
	data := pdf.NewData()
	stmRef := data.Alloc()
	data.PutStream(stmRef, nil, []byte("not an ICC profile"))

	res := NewResolver(data, nil)
	defer res.Close()

	_, err := res.Resolve(pdf.Array{pdf.Name("ICCBased"), stmRef})
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("got %v, want ErrSyntax", err)
	}

	// Without a number of components, no alternate can match.
	data.PutStream(stmRef, pdf.Dict{"Alternate": pdf.Name("DeviceGray")}, []byte("x"))
	_, err = res.Resolve(pdf.Array{pdf.Name("ICCBased"), stmRef})
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("got %v, want ErrSyntax", err)
	}
}

func TestICCExplicitN(t *testing.T) {
	// /N takes precedence over the profile data.
	data := pdf.NewData()
	stmRef := data.Alloc()
	data.PutStream(stmRef, pdf.Dict{"N": pdf.Integer(4)}, icc.SRGBv4Profile)

	res := NewResolver(data, nil)
	defer res.Close()

	s, err := res.Resolve(pdf.Array{pdf.Name("ICCBased"), stmRef})
	if err != nil {
		t.Fatal(err)
	}
	if s != DeviceCMYK {
		t.Errorf("got %v, want DeviceCMYK", s)
	}
}

func TestInspectICC(t *testing.T) {
	type testCase struct {
		profile []byte
		major   string
	}
	for _, c := range []testCase{
		{icc.SRGBv2Profile, "2."},
		{icc.SRGBv4Profile, "4."},
	} {
		data := pdf.NewData()
		stmRef := data.Alloc()
		data.PutStream(stmRef, pdf.Dict{
			"N":         pdf.Integer(3),
			"Alternate": pdf.Name("DeviceRGB"),
		}, c.profile)

		info, err := InspectICC(data, pdf.Array{pdf.Name("ICCBased"), stmRef})
		if err != nil {
			t.Fatal(err)
		}

		if info.N != 3 {
			t.Errorf("N = %d, want 3", info.N)
		}
		if info.Alternate != pdf.Name("DeviceRGB") {
			t.Errorf("Alternate = %v", info.Alternate)
		}
		if info.ProfileChannels != 3 || info.ProfileSpace == "" {
			t.Errorf("profile space %q with %d channels", info.ProfileSpace, info.ProfileChannels)
		}
		if !strings.HasPrefix(info.Version, c.major) {
			t.Errorf("Version = %q, want prefix %q", info.Version, c.major)
		}
		if len(info.Class) != 4 {
			t.Errorf("Class = %q", info.Class)
		}
		if info.Metadata != nil {
			t.Error("unexpected metadata")
		}
	}
}

func TestInspectICCMetadata(t *testing.T) {
	packet := xmp.NewPacket()
	dc := &xmp.DublinCore{}
	dc.Title.Set(language.Und, "sRGB test profile")
	dc.Creator.Append(xmp.NewProperName("Test Author"))
	err := packet.Set(dc)
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	err = packet.Write(buf, nil)
	if err != nil {
		t.Fatal(err)
	}

	data := pdf.NewData()
	metaRef := data.Alloc()
	data.PutStream(metaRef, pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}, buf.Bytes())
	stmRef := data.Alloc()
	data.PutStream(stmRef, pdf.Dict{
		"N":        pdf.Integer(3),
		"Metadata": metaRef,
	}, icc.SRGBv2Profile)
	descRef := data.Alloc()
	data.Put(descRef, pdf.Array{pdf.Name("ICCBased"), stmRef})

	info, err := InspectICC(data, descRef)
	if err != nil {
		t.Fatal(err)
	}
	if info.Metadata == nil {
		t.Fatal("metadata missing")
	}

	var got, want xmp.DublinCore
	info.Metadata.Get(&got)
	packet.Get(&want)
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("metadata round trip (-want +got):\n%s", d)
	}
}

func TestInspectICCErrors(t *testing.T) {
	data := pdf.NewData()
	badMeta := data.Alloc()
	data.Put(badMeta, pdf.Integer(1))
	stmRef := data.Alloc()
	data.PutStream(stmRef, pdf.Dict{"N": pdf.Integer(3), "Metadata": badMeta}, icc.SRGBv2Profile)

	cases := []pdf.Object{
		pdf.Name("DeviceRGB"),
		pdf.Array{pdf.Name("Indexed"), pdf.Name("DeviceRGB"), pdf.Integer(0), pdf.String{0, 0, 0}},
		pdf.Array{pdf.Name("ICCBased")},
		pdf.Array{pdf.Name("ICCBased"), stmRef},
	}
	for _, desc := range cases {
		_, err := InspectICC(data, desc)
		if err == nil {
			t.Errorf("%s: expected error", pdf.Format(desc))
		}
	}
}
