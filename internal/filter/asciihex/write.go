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

package asciihex

import (
	"io"
)

const hexDigits = "0123456789abcdef"

// Encode returns a writer which encodes data in ASCII hexadecimal form.
// Output lines are at most width characters long.  Closing the returned
// writer appends the end-of-data marker ">" and closes w.
func Encode(w io.WriteCloser, width int) io.WriteCloser {
	if width < 2 {
		width = 2
	}
	return &writer{w: w, width: width - width%2}
}

type writer struct {
	w     io.WriteCloser
	width int
	col   int
}

func (w *writer) Write(p []byte) (int, error) {
	buf := make([]byte, 0, 3*len(p))
	for _, c := range p {
		if w.col+2 > w.width {
			buf = append(buf, '\n')
			w.col = 0
		}
		buf = append(buf, hexDigits[c>>4], hexDigits[c&15])
		w.col += 2
	}
	_, err := w.w.Write(buf)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *writer) Close() error {
	var err error
	if w.col+1 > w.width {
		_, err = w.w.Write([]byte("\n>"))
	} else {
		_, err = w.w.Write([]byte(">"))
	}
	if err != nil {
		return err
	}
	return w.w.Close()
}
