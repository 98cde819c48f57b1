package play

import (
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/extractors/xmltext"
)

// ExtractMetadata returns the bibliographic record for a play file. Only
// a play root carries metadata; any other root yields nil, nil.
//
// Every play in the collection is a First Folio text, so author, year
// and edition fall back to that printing. Plays carry no source
// identifier and are deduplicated by path.
func (e *Extractor) ExtractMetadata(doc *etree.Document, path string) (*domain.Metadata, error) {
	root := doc.Root()
	if root == nil || kindOf(root) != kindPlay {
		return nil, nil
	}

	title := xmltext.Joined(root.FindElement(".//title"))
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	year := folioYear
	return &domain.Metadata{
		Title:           domain.Truncate(title, domain.MaxTitleLength),
		Author:          domain.Truncate(firstText(root, defaultAuthor, ".//playwright", ".//author"), domain.MaxAuthorLength),
		Genre:           defaultGenre,
		PublicationYear: &year,
		Edition:         firstText(root, defaultEdition, ".//edition"),
		Collection:      domain.CollectionFolio,
		Language:        folioLanguage,
		Notes:           defaultNotes,
	}, nil
}

// firstText returns the joined text of the first non-empty element found
// at paths, or def.
func firstText(root *etree.Element, def string, paths ...string) string {
	for _, p := range paths {
		if text := xmltext.Joined(root.FindElement(p)); text != "" {
			return text
		}
	}
	return def
}
