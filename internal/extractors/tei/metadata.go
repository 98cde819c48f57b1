package tei

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/extractors/xmltext"
)

var (
	yearPattern         = regexp.MustCompile(`\b(\d{4})\b`)
	reproductionPattern = regexp.MustCompile(`(?i)reproduction of the original in the\s+(.+?)\.?$`)
)

// Header date locations, most authoritative first.
var yearPaths = []string{
	".//sourceDesc//biblFull//publicationStmt//date",
	".//editionStmt//edition//date",
}

// ExtractMetadata reads the teiHeader. It returns nil, nil when the
// document has no header.
func (e *Extractor) ExtractMetadata(doc *etree.Document, path string) (*domain.Metadata, error) {
	root := doc.Root()
	if root == nil {
		return nil, nil
	}
	header := root.FindElement(".//teiHeader")
	if header == nil {
		return nil, nil
	}

	title := xmltext.Joined(header.FindElement(".//title"))
	if title == "" {
		title = unknownTitle
	}

	return &domain.Metadata{
		SourceIdentifier: SourceIdentifier(path),
		Title:            domain.Truncate(title, domain.MaxTitleLength),
		Author:           domain.Truncate(xmltext.Joined(header.FindElement(".//author")), domain.MaxAuthorLength),
		PublicationYear:  PublicationYear(header),
		EEBOCitation:     idno(header, "EEBO-CITATION"),
		VolumeID:         idno(header, "VID"),
		Collection:       domain.CollectionEEBO,
		Language:         language(header),
		SourceLibrary:    sourceLibrary(header),
	}, nil
}

// Header returns the document's teiHeader or nil.
func Header(doc *etree.Document) *etree.Element {
	if doc.Root() == nil {
		return nil
	}
	return doc.Root().FindElement(".//teiHeader")
}

// SourceIdentifier derives the TCP id from a file path: the base name
// without its extension.
func SourceIdentifier(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PublicationYear reads the first four-digit year from the header's
// source publication date, then its edition date. The when attribute
// is preferred over element text.
func PublicationYear(header *etree.Element) *int {
	if header == nil {
		return nil
	}
	for _, p := range yearPaths {
		date := header.FindElement(p)
		if date == nil {
			continue
		}
		value := date.SelectAttrValue("when", "")
		if value == "" {
			value = xmltext.Text(date)
		}
		m := yearPattern.FindStringSubmatch(value)
		if m == nil {
			return nil
		}
		year, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		return &year
	}
	return nil
}

func idno(header *etree.Element, kind string) string {
	return xmltext.Collapse(xmltext.Text(header.FindElement(".//idno[@type='" + kind + "']")))
}

func language(header *etree.Element) string {
	if lang := header.FindElement(".//langUsage/language"); lang != nil {
		if ident := lang.SelectAttrValue("ident", ""); ident != "" {
			return ident
		}
	}
	return defaultLanguage
}

// sourceLibrary reads the holding library from the reproduction note,
// e.g. "Reproduction of the original in the Bodleian Library."
func sourceLibrary(header *etree.Element) string {
	for _, note := range header.FindElements(".//note") {
		m := reproductionPattern.FindStringSubmatch(xmltext.Collapse(xmltext.Text(note)))
		if m != nil {
			return m[1]
		}
	}
	return ""
}
