package npy

import (
	"fmt"
	"strconv"

	"github.com/born-ml/npyio/internal/tensor"
)

// DecodeHeader parses the dictionary text of a .npy header.
//
// The text must be a Python dict literal with exactly the keys descr,
// fortran_order and shape, in any order. Whitespace, a trailing comma and the
// space/newline padding are accepted; anything else is a *FormatError.
func DecodeHeader(dict []byte) (Header, error) {
	p := &dictParser{src: dict}
	entries, err := p.parseDict()
	if err != nil {
		return Header{}, err
	}

	var h Header
	descr, ok := entries[keyDescr]
	if !ok {
		return Header{}, missingKeyword(keyDescr)
	}
	if h.Type, err = parseDescr(descr); err != nil {
		return Header{}, err
	}

	order, ok := entries[keyFortranOrder]
	if !ok {
		return Header{}, missingKeyword(keyFortranOrder)
	}
	if order.kind != litBool {
		return Header{}, &FormatError{Keyword: keyFortranOrder, Detail: "value must be True or False"}
	}
	h.FortranOrder = order.b

	shape, ok := entries[keyShape]
	if !ok {
		return Header{}, missingKeyword(keyShape)
	}
	if shape.kind != litTuple {
		return Header{}, &FormatError{Keyword: keyShape, Detail: "value must be a tuple of integers"}
	}
	h.Shape = shape.ints

	return h, nil
}

// parseDescr splits a descr string such as "<f4" into its parts.
// Only little-endian ('<') and not-applicable ('|') markers are accepted.
func parseDescr(v literal) (WireType, error) {
	if v.kind != litString {
		return WireType{}, &FormatError{Keyword: keyDescr, Detail: "value must be a string"}
	}
	s := v.str
	if len(s) < 3 {
		return WireType{}, &FormatError{Keyword: keyDescr, Detail: fmt.Sprintf("malformed type %q", s)}
	}
	if s[0] != LittleEndian && s[0] != NotApplicable {
		return WireType{}, &FormatError{
			Keyword: keyDescr,
			Detail:  fmt.Sprintf("unsupported byte order %q in %q", s[0], s),
		}
	}
	for i := 2; i < len(s); i++ {
		if !isDigit(s[i]) {
			return WireType{}, &FormatError{Keyword: keyDescr, Detail: fmt.Sprintf("malformed word size in %q", s)}
		}
	}
	size, err := strconv.Atoi(s[2:])
	if err != nil || size <= 0 {
		return WireType{}, &FormatError{Keyword: keyDescr, Detail: fmt.Sprintf("invalid word size in %q", s)}
	}
	return WireType{Kind: s[1], Size: size}, nil
}

type litKind int

const (
	litString litKind = iota
	litBool
	litTuple
)

// literal is one parsed dict value.
type literal struct {
	kind litKind
	str  string
	b    bool
	ints tensor.Shape
}

// dictParser is a recursive descent parser for the subset of Python literal
// syntax that appears in .npy headers.
type dictParser struct {
	src []byte
	pos int
}

func (p *dictParser) errorf(format string, args ...any) error {
	return &FormatError{Detail: fmt.Sprintf("offset %d: ", p.pos) + fmt.Sprintf(format, args...)}
}

func (p *dictParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *dictParser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *dictParser) expect(c byte) error {
	p.skipSpace()
	got, ok := p.peek()
	if !ok {
		return p.errorf("expected %q, got end of header", c)
	}
	if got != c {
		return p.errorf("expected %q, got %q", c, got)
	}
	p.pos++
	return nil
}

func (p *dictParser) parseDict() (map[string]literal, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	entries := make(map[string]literal, 3)
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated dict")
		}
		if c == '}' {
			p.pos++
			break
		}

		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		switch key {
		case keyDescr, keyFortranOrder, keyShape:
		default:
			return nil, &FormatError{Keyword: key, Detail: "unexpected key"}
		}
		if _, dup := entries[key]; dup {
			return nil, &FormatError{Keyword: key, Detail: "duplicate key"}
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		entries[key] = val

		p.skipSpace()
		c, ok = p.peek()
		switch {
		case ok && c == ',':
			p.pos++
		case ok && c == '}':
		default:
			return nil, p.errorf("expected ',' or '}' after value of %q", key)
		}
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("trailing data after dict")
	}
	return entries, nil
}

func (p *dictParser) parseValue() (literal, error) {
	p.skipSpace()
	c, ok := p.peek()
	if !ok {
		return literal{}, p.errorf("expected value, got end of header")
	}
	switch {
	case c == '\'' || c == '"':
		s, err := p.parseString()
		return literal{kind: litString, str: s}, err
	case c == '(':
		ints, err := p.parseTuple()
		return literal{kind: litTuple, ints: ints}, err
	case p.hasWord("True"):
		p.pos += len("True")
		return literal{kind: litBool, b: true}, nil
	case p.hasWord("False"):
		p.pos += len("False")
		return literal{kind: litBool, b: false}, nil
	default:
		return literal{}, p.errorf("unexpected character %q", c)
	}
}

func (p *dictParser) hasWord(w string) bool {
	end := p.pos + len(w)
	if end > len(p.src) || string(p.src[p.pos:end]) != w {
		return false
	}
	return end == len(p.src) || !isIdentByte(p.src[end])
}

func (p *dictParser) parseString() (string, error) {
	p.skipSpace()
	q, ok := p.peek()
	if !ok || (q != '\'' && q != '"') {
		return "", p.errorf("expected quoted string")
	}
	start := p.pos + 1
	for i := start; i < len(p.src); i++ {
		switch p.src[i] {
		case q:
			p.pos = i + 1
			return string(p.src[start:i]), nil
		case '\\', '\n':
			p.pos = i
			return "", p.errorf("unsupported character in string")
		}
	}
	return "", p.errorf("unterminated string")
}

// parseTuple parses "()", "(5,)" or "(2, 3)". A single element needs its
// trailing comma, as in Python.
func (p *dictParser) parseTuple() (tensor.Shape, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	dims := tensor.Shape{}
	trailingComma := false
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated tuple")
		}
		if c == ')' {
			p.pos++
			break
		}
		if !isDigit(c) {
			return nil, &FormatError{Keyword: keyShape, Detail: fmt.Sprintf("unexpected character %q in tuple", c)}
		}
		start := p.pos
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
		dim, err := strconv.Atoi(string(p.src[start:p.pos]))
		if err != nil {
			return nil, &FormatError{Keyword: keyShape, Err: err}
		}
		dims = append(dims, dim)
		trailingComma = false

		p.skipSpace()
		c, ok = p.peek()
		switch {
		case ok && c == ',':
			p.pos++
			trailingComma = true
		case ok && c == ')':
		default:
			return nil, p.errorf("expected ',' or ')' in tuple")
		}
	}
	if len(dims) == 1 && !trailingComma {
		return nil, &FormatError{Keyword: keyShape, Detail: "one-element tuple needs a trailing comma"}
	}
	return dims, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
