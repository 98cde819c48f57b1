package tei

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/extractors/xmltext"
)

// Extractor builds Logical Documents and metadata from EEBO-TCP TEI files.
type Extractor struct{}

// New creates a TEI extractor.
func New() *Extractor {
	return &Extractor{}
}

// Schema returns the schema this extractor handles.
func (e *Extractor) Schema() domain.Schema {
	return domain.SchemaTEI
}

// Matches reports whether root is a TEI document element.
func (e *Extractor) Matches(root *etree.Element) bool {
	if root == nil {
		return false
	}
	return root.Tag == "TEI" || root.Tag == "TEI.2" || root.NamespaceURI() == teiNamespace
}

// Extract walks the front, body and back of every text in the document.
// The front and back each become one section; the body yields one
// section per top-level div, with loose body content under "Main Text".
func (e *Extractor) Extract(doc *etree.Document) (*domain.LogicalDocument, error) {
	root := doc.Root()
	if !e.Matches(root) {
		return nil, fmt.Errorf("tei: root <%s>: %w", rootTag(root), domain.ErrSchemaMismatch)
	}

	out := &domain.LogicalDocument{
		Schema: domain.SchemaTEI,
		Title:  documentTitle(root),
	}

	for _, text := range root.SelectElements("text") {
		out.Sections = appendText(out.Sections, text)
	}

	return out, nil
}

func rootTag(root *etree.Element) string {
	if root == nil {
		return ""
	}
	return root.Tag
}

func documentTitle(root *etree.Element) string {
	header := root.FindElement(".//teiHeader")
	if header == nil {
		return unknownTitle
	}
	if title := xmltext.Joined(header.FindElement(".//title")); title != "" {
		return title
	}
	return unknownTitle
}

// appendText appends the sections of one text element in document order.
// Only the texts of a group are followed into; a text quoted inside a
// body region is reached by the body walk itself.
func appendText(sections []domain.Section, text *etree.Element) []domain.Section {
	for _, region := range text.ChildElements() {
		switch kindOf(region) {
		case kindFront:
			sections = appendSection(sections, walkRegion(frontMatterTitle, region))
		case kindBody:
			sections = append(sections, bodySections(region)...)
		case kindBack:
			sections = appendSection(sections, walkRegion(backMatterTitle, region))
		case kindGroup:
			sections = appendGroup(sections, region)
		}
	}
	return sections
}

func appendGroup(sections []domain.Section, group *etree.Element) []domain.Section {
	for _, c := range group.ChildElements() {
		switch kindOf(c) {
		case kindText:
			sections = appendText(sections, c)
		case kindGroup:
			sections = appendGroup(sections, c)
		}
	}
	return sections
}

func appendSection(sections []domain.Section, s *domain.Section) []domain.Section {
	if s == nil {
		return sections
	}
	return append(sections, *s)
}

func walkRegion(title string, region *etree.Element) *domain.Section {
	w := newSectionWalker(title)
	w.container(region)
	return w.result()
}

// bodySections splits a body into one section per top-level div.
// Content outside any div is gathered, in place, into "Main Text"
// sections between them.
func bodySections(body *etree.Element) []domain.Section {
	var walkers []*sectionWalker
	var loose *sectionWalker

	for _, tok := range body.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if loose == nil {
				loose = newSectionWalker(untitledSection)
				walkers = append(walkers, loose)
			}
			loose.charData(t.Data)
		case *etree.Element:
			if kindOf(t) == kindDiv {
				loose = nil
				w := newSectionWalker(divTitle(t))
				w.container(t)
				walkers = append(walkers, w)
				continue
			}
			if loose == nil {
				loose = newSectionWalker(untitledSection)
				walkers = append(walkers, loose)
			}
			loose.dispatch(t)
		}
	}

	var sections []domain.Section
	for _, w := range walkers {
		sections = appendSection(sections, w.result())
	}
	return sections
}

func divTitle(div *etree.Element) string {
	if head := div.SelectElement("head"); head != nil {
		if title, _ := inlineChildren(head); title != "" {
			return title
		}
	}
	return untitledSection
}
