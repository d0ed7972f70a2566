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
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ReadObjects reads a sequence of indirect objects in PDF syntax,
// i.e. blocks of the form "12 0 obj ... endobj", from r.  Comments and
// white space between objects are ignored.
//
// Stream data is read using the /Length entry of the stream dictionary,
// if this is a direct integer.  Otherwise the data extends to the next
// "endstream" keyword.
func ReadObjects(r io.Reader) (*Data, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data := NewData()
	s := &scanner{buf: body}
	for {
		s.skipWhiteSpace()
		if s.pos >= len(s.buf) {
			break
		}
		ref, obj, err := s.readIndirectObject()
		if err != nil {
			return nil, err
		}
		data.Put(ref, obj)
	}
	return data, nil
}

// ParseObject parses a single direct object in PDF syntax.  The object
// may contain references to indirect objects, like "[/Indexed 5 0 R 1 <00ff>]".
func ParseObject(buf []byte) (Object, error) {
	s := &scanner{buf: buf}
	s.skipWhiteSpace()
	obj, err := s.readObject()
	if err != nil {
		return nil, err
	}
	s.skipWhiteSpace()
	if s.pos < len(s.buf) {
		return nil, s.errorf("unexpected trailing data %q", s.peek(16))
	}
	return obj, nil
}

// scanner parses PDF syntax from an in-memory buffer.
type scanner struct {
	buf []byte
	pos int
}

func (s *scanner) errorf(format string, args ...any) error {
	return &MalformedFileError{
		Err: fmt.Errorf(format, args...),
		Loc: []string{"byte " + strconv.Itoa(s.pos)},
	}
}

func (s *scanner) readIndirectObject() (Reference, Object, error) {
	number, err := s.readInteger()
	if err != nil {
		return 0, nil, err
	}
	s.skipWhiteSpace()
	generation, err := s.readInteger()
	if err != nil {
		return 0, nil, err
	}
	if number < 0 || number > 0xFFFF_FFFF || generation < 0 || generation > 0xFFFF {
		return 0, nil, s.errorf("invalid object number %d %d", number, generation)
	}
	s.skipWhiteSpace()
	err = s.skipString("obj")
	if err != nil {
		return 0, nil, err
	}
	s.skipWhiteSpace()

	ref := NewReference(uint32(number), uint16(generation))

	obj, err := s.readObject()
	if err != nil {
		return 0, nil, Wrap(err, ref.String())
	}
	s.skipWhiteSpace()

	if dict, ok := obj.(Dict); ok && s.hasPrefix("stream") {
		obj, err = s.readStreamData(dict)
		if err != nil {
			return 0, nil, Wrap(err, ref.String())
		}
		s.skipWhiteSpace()
	}

	err = s.skipString("endobj")
	if err != nil {
		return 0, nil, Wrap(err, ref.String())
	}
	return ref, obj, nil
}

func (s *scanner) readObject() (Object, error) {
	if s.pos >= len(s.buf) {
		return nil, &MalformedFileError{Err: io.ErrUnexpectedEOF}
	}

	c := s.buf[s.pos]
	switch {
	case s.hasKeyword("null"):
		s.pos += 4
		return nil, nil
	case s.hasKeyword("true"):
		s.pos += 4
		return Bool(true), nil
	case s.hasKeyword("false"):
		s.pos += 5
		return Bool(false), nil
	case c == '/':
		return s.readName()
	case c >= '0' && c <= '9', c == '+', c == '-', c == '.':
		obj, err := s.readNumber()
		if err != nil {
			return nil, err
		}
		if a, isInt := obj.(Integer); isInt {
			if ref, ok := s.tryReference(a); ok {
				return ref, nil
			}
		}
		return obj, nil
	case s.hasPrefix("<<"):
		return s.readDict()
	case c == '(':
		s.pos++
		return s.readQuotedString()
	case c == '<':
		s.pos++
		return s.readHexString()
	case c == '[':
		s.pos++
		return s.readArray()
	}
	return nil, s.errorf("unexpected character %q", c)
}

// tryReference checks whether the integer a just read is the start of a
// reference "a b R".  If not, the scanner position is left unchanged.
func (s *scanner) tryReference(a Integer) (Reference, bool) {
	start := s.pos
	s.skipWhiteSpace()
	b, err := s.readInteger()
	if err == nil {
		s.skipWhiteSpace()
		if s.hasKeyword("R") && a >= 0 && a <= 0xFFFF_FFFF && b >= 0 && b <= 0xFFFF {
			s.pos++
			return NewReference(uint32(a), uint16(b)), true
		}
	}
	s.pos = start
	return 0, false
}

func (s *scanner) readInteger() (Integer, error) {
	start := s.pos
	if s.pos < len(s.buf) && (s.buf[s.pos] == '+' || s.buf[s.pos] == '-') {
		s.pos++
	}
	for s.pos < len(s.buf) && s.buf[s.pos] >= '0' && s.buf[s.pos] <= '9' {
		s.pos++
	}
	x, err := strconv.ParseInt(string(s.buf[start:s.pos]), 10, 64)
	if err != nil {
		s.pos = start
		return 0, &MalformedFileError{
			Err: err,
			Loc: []string{"byte " + strconv.Itoa(start)},
		}
	}
	return Integer(x), nil
}

func (s *scanner) readNumber() (Object, error) {
	start := s.pos
	hasDot := false
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		isSign := (c == '+' || c == '-') && s.pos == start
		if c == '.' && !hasDot {
			hasDot = true
		} else if !isSign && (c < '0' || c > '9') {
			break
		}
		s.pos++
	}
	text := string(s.buf[start:s.pos])

	if hasDot {
		x, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &MalformedFileError{Err: err}
		}
		return Real(x), nil
	}
	x, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, &MalformedFileError{Err: err}
	}
	return Integer(x), nil
}

// readQuotedString reads a ()-delimited string, starting after the opening
// bracket.
func (s *scanner) readQuotedString() (String, error) {
	var res []byte
	depth := 0
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.buf) {
				return nil, &MalformedFileError{Err: io.ErrUnexpectedEOF}
			}
			c = s.buf[s.pos]
			s.pos++
			switch c {
			case 'n':
				res = append(res, '\n')
			case 'r':
				res = append(res, '\r')
			case 't':
				res = append(res, '\t')
			case 'b':
				res = append(res, '\b')
			case 'f':
				res = append(res, '\f')
			case '\r':
				if s.pos < len(s.buf) && s.buf[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
				// line continuation
			default:
				if c >= '0' && c <= '7' {
					val := c - '0'
					for k := 0; k < 2 && s.pos < len(s.buf); k++ {
						d := s.buf[s.pos]
						if d < '0' || d > '7' {
							break
						}
						val = val*8 + (d - '0')
						s.pos++
					}
					res = append(res, val)
				} else {
					res = append(res, c)
				}
			}
		case '(':
			depth++
			res = append(res, c)
		case ')':
			if depth == 0 {
				return String(res), nil
			}
			depth--
			res = append(res, c)
		case '\r':
			if s.pos < len(s.buf) && s.buf[s.pos] == '\n' {
				s.pos++
			}
			res = append(res, '\n')
		default:
			res = append(res, c)
		}
	}
	return nil, &MalformedFileError{Err: errors.New("unterminated string")}
}

// readHexString reads a <>-delimited string, starting after the opening
// angled bracket.
func (s *scanner) readHexString() (String, error) {
	var res []byte
	var hexVal byte
	first := true
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		s.pos++

		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c == '>':
			if !first {
				res = append(res, 16*hexVal)
			}
			return String(res), nil
		case isSpace[c]:
			continue
		default:
			return nil, s.errorf("invalid character %q in hex string", c)
		}
		if first {
			hexVal = d
		} else {
			res = append(res, 16*hexVal+d)
		}
		first = !first
	}
	return nil, &MalformedFileError{Err: errors.New("unterminated hex string")}
}

func (s *scanner) readName() (Name, error) {
	err := s.skipString("/")
	if err != nil {
		return "", err
	}

	var res []byte
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		if isSpace[c] || isDelimiter[c] {
			break
		}
		s.pos++
		if c == '#' && s.pos+2 <= len(s.buf) {
			val, err := strconv.ParseUint(string(s.buf[s.pos:s.pos+2]), 16, 8)
			if err == nil {
				res = append(res, byte(val))
				s.pos += 2
				continue
			}
		}
		res = append(res, c)
	}
	return Name(res), nil
}

// readArray reads an array, starting after the opening "[".
func (s *scanner) readArray() (Array, error) {
	array := Array{}
	for {
		s.skipWhiteSpace()
		if s.pos >= len(s.buf) {
			return nil, &MalformedFileError{Err: errors.New("unterminated array")}
		}
		if s.buf[s.pos] == ']' {
			s.pos++
			return array, nil
		}
		obj, err := s.readObject()
		if err != nil {
			return nil, err
		}
		array = append(array, obj)
	}
}

func (s *scanner) readDict() (Dict, error) {
	err := s.skipString("<<")
	if err != nil {
		return nil, err
	}

	dict := Dict{}
	for {
		s.skipWhiteSpace()
		if s.hasPrefix(">>") {
			s.pos += 2
			return dict, nil
		}
		if s.pos >= len(s.buf) {
			return nil, &MalformedFileError{Err: errors.New("unterminated dictionary")}
		}

		key, err := s.readName()
		if err != nil {
			return nil, err
		}
		s.skipWhiteSpace()
		val, err := s.readObject()
		if err != nil {
			return nil, Wrap(err, "key /"+string(key))
		}
		if val != nil {
			dict[key] = val
		}
	}
}

// readStreamData reads the data of a stream, starting at the "stream"
// keyword after the stream dictionary.
func (s *scanner) readStreamData(dict Dict) (*Stream, error) {
	err := s.skipString("stream")
	if err != nil {
		return nil, err
	}
	if s.hasPrefix("\r\n") {
		s.pos += 2
	} else if s.hasPrefix("\n") {
		s.pos++
	} else {
		return nil, s.errorf("missing end of line after stream keyword")
	}

	start := s.pos
	var data []byte
	if length, ok := dict["Length"].(Integer); ok {
		if length < 0 || int64(start)+int64(length) > int64(len(s.buf)) {
			return nil, s.errorf("invalid stream length %d", length)
		}
		data = s.buf[start : start+int(length)]
		s.pos += int(length)
	} else {
		idx := bytes.Index(s.buf[start:], []byte("endstream"))
		if idx < 0 {
			return nil, s.errorf("missing endstream")
		}
		data = bytes.TrimSuffix(s.buf[start:start+idx], []byte("\n"))
		data = bytes.TrimSuffix(data, []byte("\r"))
		s.pos = start + idx
	}

	s.skipWhiteSpace()
	err = s.skipString("endstream")
	if err != nil {
		return nil, err
	}

	dict["Length"] = Integer(len(data))
	return &Stream{
		Dict: dict,
		R:    bytes.NewReader(data),
	}, nil
}

func (s *scanner) hasPrefix(pat string) bool {
	return bytes.HasPrefix(s.buf[s.pos:], []byte(pat))
}

// hasKeyword checks whether the input continues with the keyword pat,
// followed by white space, a delimiter, or the end of input.
func (s *scanner) hasKeyword(pat string) bool {
	if !s.hasPrefix(pat) {
		return false
	}
	end := s.pos + len(pat)
	return end >= len(s.buf) || isSpace[s.buf[end]] || isDelimiter[s.buf[end]]
}

func (s *scanner) peek(n int) []byte {
	end := min(s.pos+n, len(s.buf))
	return s.buf[s.pos:end]
}

func (s *scanner) skipString(pat string) error {
	if !s.hasPrefix(pat) {
		return s.errorf("expected %q but found %q", pat, s.peek(len(pat)))
	}
	s.pos += len(pat)
	return nil
}

func (s *scanner) skipWhiteSpace() {
	isComment := false
	for s.pos < len(s.buf) {
		c := s.buf[s.pos]
		if isComment {
			if c == '\r' || c == '\n' {
				isComment = false
			}
		} else if c == '%' {
			isComment = true
		} else if !isSpace[c] {
			return
		}
		s.pos++
	}
}

var (
	isSpace = [256]bool{
		0:  true,
		9:  true,
		10: true,
		12: true,
		13: true,
		32: true,
	}
	isDelimiter = [256]bool{
		'(': true,
		')': true,
		'<': true,
		'>': true,
		'[': true,
		']': true,
		'{': true,
		'}': true,
		'/': true,
		'%': true,
	}
)
