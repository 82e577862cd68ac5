package extract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeText returns document bytes as UTF-8. Valid UTF-8 passes through;
// anything else is retried as ISO-8859-1, which older archive exports still
// use.
func DecodeText(source string, raw []byte) ([]byte, error) {
	if utf8.Valid(raw) {
		return raw, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, &EncodingError{Source: source, Charset: "iso-8859-1", Err: err}
	}
	return decoded, nil
}

// NewDecoder builds an xml.Decoder whose CharsetReader understands the
// legacy encodings that appear in XML declarations from these sources.
func NewDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	return dec
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-8", "utf8":
		return input, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", label)
}

// newDocumentDecoder decodes raw bytes (with charset fallback) and returns
// an XML decoder over the result.
func newDocumentDecoder(source string, raw []byte) (*xml.Decoder, error) {
	text, err := DecodeText(source, raw)
	if err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	return NewDecoder(bytes.NewReader(text)), nil
}
