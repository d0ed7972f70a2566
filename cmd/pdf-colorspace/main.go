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

// Pdf-colorspace resolves a PDF color space descriptor and shows its colors.
//
// Usage:
//
//	pdf-colorspace [options] objects.txt descriptor
//
// The file objects.txt contains indirect objects in PDF syntax, like
// "7 0 obj [/Indexed /DeviceRGB 1 <ff000000ff00>] endobj".  The descriptor
// is a PDF object, for example "/DeviceCMYK" or "7 0 R".
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"

	"golang.org/x/term"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfcolor/graphics/color"
	"seehuhn.de/go/pdfcolor/pdf"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("pdf-colorspace: ")

	swatchFile := flag.String("swatch", "", "write a PNG swatch of the colors to `file`")
	size := flag.Int("size", 16, "size of a swatch cell in pixels")
	showICC := flag.Bool("icc", false, "show information about the ICC profile")
	showXMP := flag.Bool("xmp", false, "print the XMP metadata of the ICC profile")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] objects.txt descriptor\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	if *size < 1 {
		fmt.Fprintf(os.Stderr, "invalid swatch size %d\n", *size)
		os.Exit(1)
	}

	err := run(flag.Arg(0), flag.Arg(1), *swatchFile, *size, *showICC, *showXMP)
	if err != nil {
		log.Fatal(err)
	}
}

func run(objFile, descText, swatchFile string, size int, showICC, showXMP bool) error {
	f, err := os.Open(objFile)
	if err != nil {
		return err
	}
	data, err := pdf.ReadObjects(f)
	f.Close()
	if err != nil {
		return err
	}

	desc, err := pdf.ParseObject([]byte(descText))
	if err != nil {
		return fmt.Errorf("descriptor: %w", err)
	}

	if showICC || showXMP {
		info, err := color.InspectICC(data, desc)
		if err != nil {
			return err
		}
		if showICC {
			printICC(os.Stdout, info)
		}
		if showXMP && info.Metadata != nil {
			err = info.Metadata.Write(os.Stdout, &xmp.PacketOptions{Pretty: true})
			if err != nil {
				return err
			}
		}
	}

	res := color.NewResolver(data, nil)
	defer res.Close()

	s, err := res.Resolve(desc)
	if err != nil {
		return err
	}
	defer s.Release()

	useANSI := term.IsTerminal(int(os.Stdout.Fd()))
	values := samples(s)
	printSpace(os.Stdout, s)
	printSamples(os.Stdout, s, values, useANSI)

	if swatchFile != "" {
		colors := make([]color.RGB, len(values))
		for i, x := range values {
			colors[i] = s.ToRGB(x)
		}
		err = writeSwatch(swatchFile, colors, size)
		if err != nil {
			return err
		}
	}
	return nil
}

func printICC(w io.Writer, info *color.ICCInfo) {
	fmt.Fprintf(w, "ICC profile: N=%d", info.N)
	if info.Alternate != nil {
		fmt.Fprintf(w, ", alternate %s", pdf.Format(info.Alternate))
	}
	fmt.Fprintln(w)
	if info.ProfileSpace != "" {
		fmt.Fprintf(w, "  color space %s (%d channels)\n", info.ProfileSpace, info.ProfileChannels)
	}
	if info.Version != "" {
		fmt.Fprintf(w, "  version %s, class %q\n", info.Version, info.Class)
	}
}

func writeSwatch(fname string, colors []color.RGB, size int) error {
	out, err := os.Create(fname)
	if err != nil {
		return err
	}
	err = png.Encode(out, swatch(colors, size))
	if err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
