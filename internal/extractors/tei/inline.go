package tei

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"

	"github.com/folio-archive/folio/internal/extractors/xmltext"
)

// inline renders mixed content into a single line of reading text.
// Notes are pulled out so callers can emit them as blocks of their own.
type inline struct {
	b        strings.Builder
	joinNext bool
	notes    []string
}

// inlineChildren renders the content of el, excluding el's own tag.
func inlineChildren(el *etree.Element) (string, []string) {
	r := &inline{}
	r.children(el)
	return xmltext.Collapse(r.b.String()), r.notes
}

// inlineElement renders el itself, so a bare gap or glyph still yields
// its placeholder.
func inlineElement(el *etree.Element) (string, []string) {
	r := &inline{}
	r.element(el)
	return xmltext.Collapse(r.b.String()), r.notes
}

func (r *inline) children(el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			r.text(t.Data)
		case *etree.Element:
			r.element(t)
		}
	}
}

func (r *inline) text(s string) {
	if r.joinNext {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			return
		}
		r.joinNext = false
	}
	r.b.WriteString(s)
}

func (r *inline) element(el *etree.Element) {
	switch kindOf(el) {
	case kindG:
		switch {
		case isEOLHyphen(el):
			r.hyphenate()
		case isAbbrStroke(el):
			r.b.WriteString(combiningMacron)
		default:
			r.children(el)
		}
	case kindLb:
		if !r.joinNext {
			r.b.WriteString(" ")
		}
	case kindGap:
		r.text(gapText(el))
	case kindNote:
		text, nested := inlineChildren(el)
		if text != "" {
			r.notes = append(r.notes, text)
		}
		r.notes = append(r.notes, nested...)
	case kindChoice:
		if pick := preferredReading(el); pick != nil {
			r.element(pick)
		}
	case kindSkip:
	default:
		r.children(el)
	}
}

// hyphenate joins the word split across a printed line end: trailing
// whitespace and one hyphen mark are dropped from what was rendered so
// far, and the next text is attached without its leading whitespace.
func (r *inline) hyphenate() {
	s := strings.TrimRightFunc(r.b.String(), unicode.IsSpace)
	if last, size := utf8.DecodeLastRuneInString(s); size > 0 && strings.ContainsRune(hyphenMarks, last) {
		s = s[:len(s)-size]
	}
	r.b.Reset()
	r.b.WriteString(s)
	r.joinNext = true
}

func gapText(el *etree.Element) string {
	if desc := el.SelectElement("desc"); desc != nil {
		if t := xmltext.Collapse(xmltext.Text(desc)); t != "" {
			return "[" + t + "]"
		}
	}
	return gapPlaceholder
}

// preferredReading picks the expanded, regularised or corrected reading
// of a choice, falling back to its first child.
func preferredReading(el *etree.Element) *etree.Element {
	for _, tag := range []string{"expan", "reg", "corr"} {
		if c := el.SelectElement(tag); c != nil {
			return c
		}
	}
	children := el.ChildElements()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}
