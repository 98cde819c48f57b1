// Package xmltext holds the etree helpers shared by the schema extractors:
// strict parsing and the text-gathering primitives both schemas build on.
package xmltext

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"

	"github.com/folio-archive/folio/internal/core/domain"
)

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.ValidateInput = true
	doc.ReadSettings.Entity = xml.HTMLEntity
	return doc
}

// ParseFile reads and parses the XML file at path. Malformed input is
// reported as domain.ErrUnparseable.
func ParseFile(path string) (*etree.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseBytes parses an in-memory XML document.
func ParseBytes(data []byte) (*etree.Document, error) {
	doc := newDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparseable, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", domain.ErrUnparseable)
	}
	return doc, nil
}

// Parts returns every character-data node below el in document order.
func Parts(el *etree.Element) []string {
	var parts []string
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				parts = append(parts, t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	if el != nil {
		walk(el)
	}
	return parts
}

// Text returns the raw concatenation of every text node below el.
func Text(el *etree.Element) string {
	return strings.Join(Parts(el), "")
}

// Joined collapses each text node below el, drops the empty ones and
// joins the rest with single spaces. Titles split across line-break markup
// come out as one line.
func Joined(el *etree.Element) string {
	parts := Parts(el)
	kept := parts[:0]
	for _, p := range parts {
		if p = Collapse(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Collapse replaces every whitespace run in s with one space and trims
// both ends.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Attr returns the value of the named attribute or "".
func Attr(el *etree.Element, key string) string {
	if el == nil {
		return ""
	}
	return el.SelectAttrValue(key, "")
}

// ChildElements returns the direct element children of el.
func ChildElements(el *etree.Element) []*etree.Element {
	if el == nil {
		return nil
	}
	return el.ChildElements()
}
