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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/pdfcolor/pdf"
)

const testObjects = `
% Indexed, red and green
1 0 obj
[/Indexed /DeviceRGB 1 <ff000000ff00>]
endobj

% Indexed, base refers back to the color space itself
2 0 obj
[/Indexed 2 0 R 0 <00>]
endobj

3 0 obj
[/Separation /Spot /DeviceRGB 4 0 R]
endobj

4 0 obj
<< /FunctionType 2 /Domain [0 1] /C0 [1 1 1] /C1 [0 0 1] /N 1 >>
endobj

% hival out of range, short lookup stream
5 0 obj
[/Indexed /DeviceRGB 300 6 0 R]
endobj

6 0 obj
<< /Length 3 >>
stream
` + "\x01\x02\x03" + `
endstream
endobj

7 0 obj
[/ICCBased 8 0 R]
endobj

8 0 obj
<< /N 3 /Alternate /Bogus /Length 0 >>
stream

endstream
endobj

9 0 obj
[/ICCBased 10 0 R]
endobj

10 0 obj
<< /N 4 /Length 0 >>
stream

endstream
endobj

11 0 obj
[/ICCBased 12 0 R]
endobj

12 0 obj
<< /N 2 /Length 0 >>
stream

endstream
endobj

13 0 obj
[/DeviceN [/A /B /C /D /E] /DeviceRGB 14 0 R]
endobj

14 0 obj
<< /FunctionType 4 /Domain [0 1 0 1 0 1 0 1 0 1] /Range [0 1 0 1 0 1] >>
stream
{ pop pop }
endstream
endobj

% short lookup string
15 0 obj
[/Indexed /DeviceGray 3 <0011>]
endobj

% Separation, base refers back to the color space itself
16 0 obj
[/Separation /X 16 0 R 4 0 R]
endobj

% Indexed of Indexed
17 0 obj
[/Indexed 1 0 R 1 <0001>]
endobj

18 0 obj
[/ICCBased 19 0 R]
endobj

19 0 obj
<< /N 3 /Alternate /DeviceRGB /Length 0 >>
stream

endstream
endobj

20 0 obj
[/ICCBased 21 0 R]
endobj

21 0 obj
<< /N 1 /Alternate 1 0 R /Length 0 >>
stream

endstream
endobj

% ICCBased, alternate refers back to the color space itself
22 0 obj
[/ICCBased 23 0 R]
endobj

23 0 obj
<< /N 3 /Alternate 22 0 R /Length 0 >>
stream

endstream
endobj

% tint transform missing
24 0 obj
[/Separation /Spot /DeviceRGB 25 0 R]
endobj

% lookup table reference to a non-stream
26 0 obj
[/Indexed /DeviceRGB 1 27 0 R]
endobj

27 0 obj
5
endobj

% ICCBased, alternate with the wrong number of components
28 0 obj
[/ICCBased 29 0 R]
endobj

29 0 obj
<< /N 4 /Alternate 3 0 R /Length 0 >>
stream

endstream
endobj

% indirect alias of 1 0 R
30 0 obj
1 0 R
endobj
`

func loadTestObjects(t *testing.T) *pdf.Data {
	t.Helper()
	data, err := pdf.ReadObjects(strings.NewReader(testObjects))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func ref(n uint32) pdf.Reference {
	return pdf.NewReference(n, 0)
}

// failingGetter reports a read error for the references in fail.
type failingGetter struct {
	pdf.Getter
	fail map[pdf.Reference]bool
}

var errRead = errors.New("read error")

func (g *failingGetter) Get(ref pdf.Reference) (pdf.Object, error) {
	if g.fail[ref] {
		return nil, errRead
	}
	return g.Getter.Get(ref)
}

// checkClean verifies that no descriptor is left marked as in flight.
func checkClean(t *testing.T, res *Resolver) {
	t.Helper()
	if len(res.inFlight) != 0 {
		t.Errorf("%d descriptors left in flight", len(res.inFlight))
	}
	if res.depth != 0 {
		t.Errorf("nesting depth %d after resolve", res.depth)
	}
}

func TestResolve(t *testing.T) {
	data := loadTestObjects(t)

	type testCase struct {
		desc     pdf.Object
		kind     Kind
		channels int
	}
	cases := []testCase{
		{pdf.Name("DeviceGray"), KindDeviceGray, 1},
		{pdf.Name("G"), KindDeviceGray, 1},
		{pdf.Name("CalGray"), KindDeviceGray, 1},
		{pdf.Name("Pattern"), KindDeviceGray, 1},
		{pdf.Name("RGB"), KindDeviceRGB, 3},
		{pdf.Name("CalRGB"), KindDeviceRGB, 3},
		{pdf.Name("CMYK"), KindDeviceCMYK, 4},
		{pdf.Name("CalCMYK"), KindDeviceCMYK, 4},
		{pdf.Name("Lab"), KindDeviceLab, 3},
		{pdf.Array{pdf.Name("CalRGB"), pdf.Dict{"WhitePoint": pdf.Array{pdf.Real(0.95), pdf.Integer(1), pdf.Real(1.09)}}}, KindDeviceRGB, 3},
		{pdf.Array{pdf.Name("Lab"), pdf.Dict{}}, KindDeviceLab, 3},
		{pdf.Array{pdf.Name("DeviceCMYK")}, KindDeviceCMYK, 4},
		{pdf.Array{pdf.Name("Pattern")}, KindDeviceGray, 1},
		{pdf.Array{pdf.Name("Pattern"), pdf.Name("DeviceRGB")}, KindDeviceRGB, 3},
		{pdf.Array{pdf.Name("Pattern"), ref(1)}, KindIndexed, 1},
		{ref(1), KindIndexed, 1},
		{ref(30), KindIndexed, 1},
		{ref(3), KindSeparation, 1},
		{ref(5), KindIndexed, 1},
		{ref(7), KindDeviceRGB, 3},
		{ref(9), KindDeviceCMYK, 4},
		{ref(13), KindDeviceN, 5},
		{ref(17), KindIndexed, 1},
		{ref(18), KindDeviceRGB, 3},
		{ref(20), KindIndexed, 1},
		{ref(22), KindDeviceRGB, 3},
		{ref(28), KindDeviceCMYK, 4},
		{pdf.Array{pdf.Name("I"), pdf.Name("DeviceGray"), pdf.Integer(1), pdf.String{0, 255}}, KindIndexed, 1},
	}
	for _, c := range cases {
		t.Run(pdf.Format(c.desc), func(t *testing.T) {
			res := NewResolver(data, nil)
			defer res.Close()

			s, err := res.Resolve(c.desc)
			if err != nil {
				t.Fatal(err)
			}
			defer s.Release()

			if s.Kind() != c.kind {
				t.Errorf("kind: got %s, want %s", s.Kind(), c.kind)
			}
			if s.Channels() != c.channels {
				t.Errorf("channels: got %d, want %d", s.Channels(), c.channels)
			}
			checkClean(t, res)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	data := loadTestObjects(t)
	broken := &failingGetter{
		Getter: data,
		fail:   map[pdf.Reference]bool{ref(100): true},
	}

	tooMany := make(pdf.Array, MaxComponents+1)
	for i := range tooMany {
		tooMany[i] = pdf.Name("C")
	}

	type testCase struct {
		name string
		r    pdf.Getter
		desc pdf.Object
		want error
	}
	cases := []testCase{
		{"unknown name", data, pdf.Name("Bogus"), ErrSyntax},
		{"unknown family", data, pdf.Array{pdf.Name("Bogus")}, ErrSyntax},
		{"empty array", data, pdf.Array{}, ErrSyntax},
		{"family not a name", data, pdf.Array{pdf.Integer(1)}, ErrSyntax},
		{"integer", data, pdf.Integer(7), ErrSyntax},
		{"dict", data, pdf.Dict{}, ErrSyntax},
		{"null", data, nil, ErrSyntax},
		{"missing object", data, ref(99), ErrSyntax},
		{"indexed cycle", data, ref(2), ErrCycle},
		{"separation cycle", data, ref(16), ErrCycle},
		{"icc bad N", data, ref(11), ErrSyntax},
		{"icc missing stream", data, pdf.Array{pdf.Name("ICCBased")}, ErrSyntax},
		{"icc not a stream", data, pdf.Array{pdf.Name("ICCBased"), pdf.Dict{}}, ErrSyntax},
		{"short lookup string", data, ref(15), ErrSyntax},
		{"missing lookup", data, pdf.Array{pdf.Name("Indexed"), pdf.Name("DeviceRGB"), pdf.Integer(0), nil}, ErrSyntax},
		{"lookup not a stream", data, ref(26), ErrResourceLoad},
		{"short indexed", data, pdf.Array{pdf.Name("Indexed"), pdf.Name("DeviceRGB"), pdf.Integer(0)}, ErrSyntax},
		{"nested syntax error", data, pdf.Array{pdf.Name("Indexed"), pdf.Array{pdf.Name("Bogus")}, pdf.Integer(0), pdf.String{0}}, ErrSyntax},
		{"short separation", data, pdf.Array{pdf.Name("Separation"), pdf.Name("A"), pdf.Name("DeviceRGB")}, ErrSyntax},
		{"empty DeviceN", data, pdf.Array{pdf.Name("DeviceN"), pdf.Array{}, pdf.Name("DeviceRGB"), ref(4)}, ErrSyntax},
		{"too many colorants", data, pdf.Array{pdf.Name("DeviceN"), tooMany, pdf.Name("DeviceRGB"), ref(4)}, ErrComponentLimit},
		{"missing tint", data, ref(24), ErrResourceLoad},
		{"tint shape", data, pdf.Array{pdf.Name("Separation"), pdf.Name("A"), pdf.Name("DeviceCMYK"), ref(4)}, ErrResourceLoad},
		{"read error", broken, ref(100), ErrResourceLoad},
		{"base read error", broken, pdf.Array{pdf.Name("Indexed"), ref(100), pdf.Integer(0), pdf.String{0}}, ErrResourceLoad},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := NewResolver(c.r, nil)
			defer res.Close()

			s, err := res.Resolve(c.desc)
			if err == nil {
				s.Release()
				t.Fatalf("expected error, got %v", s)
			}
			if !errors.Is(err, c.want) {
				t.Errorf("got %v, want %v", err, c.want)
			}
			var colorErr *Error
			if !errors.As(err, &colorErr) {
				t.Errorf("error %v is not a *Error", err)
			}
			if res.Len() != 0 {
				t.Errorf("cache has %d entries after failure", res.Len())
			}
			checkClean(t, res)
		})
	}
}

func TestErrorKinds(t *testing.T) {
	data := loadTestObjects(t)
	res := NewResolver(data, nil)
	defer res.Close()

	_, err := res.Resolve(pdf.Name("Bogus"))
	if !pdf.IsMalformed(err) {
		t.Errorf("syntax error %v is not malformed", err)
	}
	if errors.Is(err, ErrCycle) {
		t.Errorf("syntax error %v reported as cycle", err)
	}

	_, err = res.Resolve(ref(2))
	if !errors.Is(err, pdf.ErrCycle) {
		t.Errorf("cycle error %v does not wrap pdf.ErrCycle", err)
	}
	if !strings.HasPrefix(err.Error(), ErrCycle.Error()) {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCache(t *testing.T) {
	data := loadTestObjects(t)
	res := NewResolver(data, nil)

	s1, err := res.Resolve(ref(1))
	if err != nil {
		t.Fatal(err)
	}
	s2, err := res.Resolve(ref(1))
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 {
		t.Error("second resolve returned a different instance")
	}

	// A different reference to the same array shares the cache entry.
	s3, err := res.Resolve(ref(30))
	if err != nil {
		t.Fatal(err)
	}
	if s3 != s1 {
		t.Error("indirect alias returned a different instance")
	}

	// The array itself is a cache key as well.
	arr, err := pdf.GetArray(data, ref(1))
	if err != nil {
		t.Fatal(err)
	}
	s4, err := res.Resolve(arr)
	if err != nil {
		t.Fatal(err)
	}
	if s4 != s1 {
		t.Error("direct array returned a different instance")
	}

	// cache keys: 1 0 R and the array
	if res.Len() != 2 {
		t.Errorf("cache has %d entries, want 2", res.Len())
	}
	if n := RefCount(s1); n != 4+2 {
		t.Errorf("reference count %d, want 6", n)
	}

	for _, s := range []Space{s1, s2, s3, s4} {
		s.Release()
	}
	if n := RefCount(s1); n != 2 {
		t.Errorf("reference count %d after release, want 2", n)
	}

	res.Close()
	if n := RefCount(s1); n != 0 {
		t.Errorf("reference count %d after Close, want 0", n)
	}
	if s1.(*SpaceIndexed).Lookup != nil {
		t.Error("lookup table not freed")
	}
}

func TestDeviceNotCached(t *testing.T) {
	data := loadTestObjects(t)
	res := NewResolver(data, nil)
	defer res.Close()

	for _, desc := range []pdf.Object{
		pdf.Name("DeviceRGB"),
		pdf.Array{pdf.Name("CalGray"), pdf.Dict{}},
		pdf.Array{pdf.Name("Pattern")},
		ref(7),
	} {
		s, err := res.Resolve(desc)
		if err != nil {
			t.Fatal(err)
		}
		if RefCount(s) != 0 {
			t.Errorf("%s: device space has reference count %d", pdf.Format(desc), RefCount(s))
		}
		s.Release()
	}
	if res.Len() != 0 {
		t.Errorf("cache has %d entries, want 0", res.Len())
	}
}

// TestNoLeakOnFailure checks that a base color space acquired by a builder
// is released when the builder fails.
func TestNoLeakOnFailure(t *testing.T) {
	data := loadTestObjects(t)

	failures := []pdf.Array{
		{pdf.Name("Indexed"), ref(1), pdf.Integer(1), pdf.String{0}},
		{pdf.Name("Indexed"), ref(1), pdf.Integer(0), ref(27)},
		{pdf.Name("Separation"), pdf.Name("A"), ref(1), ref(4)},
		{pdf.Name("Separation"), pdf.Name("A"), ref(1), ref(25)},
		{pdf.Name("DeviceN"), pdf.Array{pdf.Name("A")}, ref(1), pdf.Integer(7)},
	}
	for i, desc := range failures {
		res := NewResolver(data, nil)

		base, err := res.Resolve(ref(1))
		if err != nil {
			t.Fatal(err)
		}
		before := RefCount(base)

		_, err = res.Resolve(desc)
		if err == nil {
			t.Fatalf("%d: expected error", i)
		}
		if after := RefCount(base); after != before {
			t.Errorf("%d: reference count changed from %d to %d", i, before, after)
		}
		checkClean(t, res)

		base.Release()
		res.Close()
		if n := RefCount(base); n != 0 {
			t.Errorf("%d: reference count %d after Close", i, n)
		}
	}
}

func TestICCAlternateReleased(t *testing.T) {
	data := loadTestObjects(t)
	res := NewResolver(data, nil)

	sep, err := res.Resolve(ref(3))
	if err != nil {
		t.Fatal(err)
	}
	before := RefCount(sep)

	// 28 0 R has a Separation alternate with one component but N=4
	s, err := res.Resolve(ref(28))
	if err != nil {
		t.Fatal(err)
	}
	if s != DeviceCMYK {
		t.Errorf("got %v, want DeviceCMYK", s)
	}
	if after := RefCount(sep); after != before {
		t.Errorf("reference count changed from %d to %d", before, after)
	}

	sep.Release()
	res.Close()
	if n := RefCount(sep); n != 0 {
		t.Errorf("reference count %d after Close", n)
	}
}

func TestICCAlternateShared(t *testing.T) {
	data := loadTestObjects(t)
	res := NewResolver(data, nil)
	defer res.Close()

	// The alternate of 20 0 R is 1 0 R.
	s1, err := res.Resolve(ref(20))
	if err != nil {
		t.Fatal(err)
	}
	defer s1.Release()
	s2, err := res.Resolve(ref(1))
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Release()

	if s1 != s2 {
		t.Error("alternate not shared")
	}
}

func TestIndexed(t *testing.T) {
	data := loadTestObjects(t)
	res := NewResolver(data, nil)
	defer res.Close()

	s, err := res.Resolve(ref(1))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()

	red := RGB{1, 0, 0}
	green := RGB{0, 1, 0}
	cases := []struct {
		x    float64
		want RGB
	}{
		{0, red},
		{0.9, red},
		{1, green},
		{1.5, green},
		{7, green},
		{-3, red},
	}
	for _, c := range cases {
		got := s.ToRGB([]float64{c.x})
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("ToRGB(%g): (-want +got)\n%s", c.x, d)
		}
	}
	if got := s.ToRGB(nil); got != red {
		t.Errorf("ToRGB(nil) = %v, want %v", got, red)
	}
}

func TestIndexedOfIndexed(t *testing.T) {
	data := loadTestObjects(t)
	res := NewResolver(data, nil)
	defer res.Close()

	s, err := res.Resolve(ref(17))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()

	idx := s.(*SpaceIndexed)
	if idx.Base.Kind() != KindIndexed {
		t.Fatalf("base is %s", idx.Base.Kind())
	}
	// entry 1 has index 1 in the base palette, which is green
	if got := s.ToRGB([]float64{1}); got != (RGB{0, 1, 0}) {
		t.Errorf("got %v, want green", got)
	}
	// lookup bytes of an Indexed base are palette indices
	if d := cmp.Diff([]float64{1}, idx.Entry(1), cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("entry 1: (-want +got)\n%s", d)
	}
}

func TestIndexedShortStream(t *testing.T) {
	data := loadTestObjects(t)
	res := NewResolver(data, nil)
	defer res.Close()

	s, err := res.Resolve(ref(5))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()

	idx := s.(*SpaceIndexed)
	if idx.HiVal != 255 {
		t.Errorf("HiVal = %d, want 255", idx.HiVal)
	}
	want := make([]byte, 3*256)
	copy(want, []byte{1, 2, 3})
	if d := cmp.Diff(want, idx.Lookup); d != "" {
		t.Errorf("lookup table: (-want +got)\n%s", d)
	}
}

func TestIndexedLongString(t *testing.T) {
	res := NewResolver(pdf.NewData(), nil)
	defer res.Close()

	desc := pdf.Array{pdf.Name("Indexed"), pdf.Name("DeviceGray"), pdf.Real(1.7), pdf.String{10, 20, 30, 40}}
	s, err := res.Resolve(desc)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()

	idx := s.(*SpaceIndexed)
	if d := cmp.Diff([]byte{10, 20}, idx.Lookup); d != "" {
		t.Errorf("lookup table: (-want +got)\n%s", d)
	}
}

func TestTint(t *testing.T) {
	data := loadTestObjects(t)
	res := NewResolver(data, nil)
	defer res.Close()

	sep, err := res.Resolve(ref(3))
	if err != nil {
		t.Fatal(err)
	}
	defer sep.Release()

	if !IsTint(sep) {
		t.Error("Separation is not a tint space")
	}
	if IsTint(DeviceRGB) {
		t.Error("DeviceRGB is a tint space")
	}
	if d := cmp.Diff([]pdf.Name{"Spot"}, sep.(*SpaceTint).Names); d != "" {
		t.Errorf("names: (-want +got)\n%s", d)
	}

	cases := []struct {
		x    []float64
		want RGB
	}{
		{[]float64{0}, RGB{1, 1, 1}},
		{[]float64{0.5}, RGB{0.5, 0.5, 1}},
		{[]float64{1}, RGB{0, 0, 1}},
		{nil, RGB{1, 1, 1}},
	}
	for _, c := range cases {
		got := sep.ToRGB(c.x)
		if d := cmp.Diff(c.want, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
			t.Errorf("ToRGB(%v): (-want +got)\n%s", c.x, d)
		}
	}
}

func TestDeviceN(t *testing.T) {
	data := loadTestObjects(t)
	res := NewResolver(data, nil)
	defer res.Close()

	s, err := res.Resolve(ref(13))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()

	if s.Channels() != 5 || !IsTint(s) {
		t.Fatalf("got %s with %d channels", s.Kind(), s.Channels())
	}
	got := s.ToRGB([]float64{0.1, 0.2, 0.3, 0.4, 0.5})
	want := RGB{0.1, 0.2, 0.3}
	if d := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("ToRGB: (-want +got)\n%s", d)
	}
}

func TestMaxNesting(t *testing.T) {
	desc := pdf.Array{pdf.Name("Pattern"),
		pdf.Array{pdf.Name("Pattern"),
			pdf.Array{pdf.Name("Pattern"), pdf.Name("DeviceRGB")}}}

	res := NewResolver(pdf.NewData(), &ResolverOptions{MaxNesting: 2})
	_, err := res.Resolve(desc)
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("got %v, want ErrSyntax", err)
	}
	checkClean(t, res)
	res.Close()

	res = NewResolver(pdf.NewData(), &ResolverOptions{MaxNesting: 3})
	s, err := res.Resolve(desc)
	if err != nil {
		t.Fatal(err)
	}
	if s != DeviceRGB {
		t.Errorf("got %v, want DeviceRGB", s)
	}
	res.Close()
}

func TestResolveAfterClose(t *testing.T) {
	res := NewResolver(pdf.NewData(), nil)
	res.Close()

	defer func() {
		if recover() == nil {
			t.Error("Resolve after Close did not panic")
		}
	}()
	res.Resolve(pdf.Name("DeviceGray"))
}

func TestOverRelease(t *testing.T) {
	data := loadTestObjects(t)
	res := NewResolver(data, nil)
	s, err := res.Resolve(ref(1))
	if err != nil {
		t.Fatal(err)
	}
	s.Release()
	res.Close()

	defer func() {
		if recover() == nil {
			t.Error("releasing a freed color space did not panic")
		}
	}()
	s.Release()
}
