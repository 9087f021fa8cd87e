package xmlutils

import (
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
	"gopkg.in/xmlpath.v2"
)

// CharsetReader resolves an XML encoding declaration to a UTF-8 reader.
// It is the xml.Decoder.CharsetReader hook.
type CharsetReader func(label string, input io.Reader) (io.Reader, error)

// DeclaredCharset honours the document's encoding declaration using the
// WHATWG label table.
func DeclaredCharset(label string, input io.Reader) (io.Reader, error) {
	return charset.NewReaderLabel(label, input)
}

// IgnoreDeclaration passes the input through unchanged. Use it when the bytes
// were already transcoded to UTF-8 and the declaration no longer applies.
func IgnoreDeclaration(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}

// Parse builds an xmlpath tree from r. A nil cr defaults to DeclaredCharset.
func Parse(r io.Reader, cr CharsetReader) (*xmlpath.Node, error) {
	if cr == nil {
		cr = DeclaredCharset
	}
	d := xml.NewDecoder(r)
	d.CharsetReader = cr
	root, err := xmlpath.ParseDecoder(d)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// StringOrEmpty returns the string value p selects under node, or "".
func StringOrEmpty(p *xmlpath.Path, node *xmlpath.Node) string {
	if s, ok := p.String(node); ok {
		return s
	}
	return ""
}
