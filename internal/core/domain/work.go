package domain

import (
	"time"
	"unicode/utf8"
)

// Known collection names.
const (
	CollectionEEBO  = "EEBO-TCP"
	CollectionFolio = "Shakespeare First Folio"
)

// FormatXML is the only source format the pipeline ingests.
const FormatXML = "xml"

// Field length limits for persisted works.
const (
	MaxTitleLength  = 500
	MaxAuthorLength = 200
)

// Work is the persisted catalogue record for one source XML file.
// Works are created by ingestion and never deleted by the core.
type Work struct {
	// ID is assigned by the store on create.
	ID int64

	// SourceIdentifier is the corpus-native identifier (the TCP id for
	// EEBO-TCP files). Unique when non-empty. Empty for play files,
	// which are deduplicated by FilePath.
	SourceIdentifier string

	Title           string
	Author          string
	Genre           string
	PublicationYear *int
	Edition         string
	Attribution     string

	// EEBOCitation and VolumeID carry the EEBO catalogue references
	// found in the header's idno elements.
	EEBOCitation string
	VolumeID     string

	Collection    string
	Language      string
	SourceLibrary string

	// FilePath locates the source XML for later re-extraction.
	FilePath string
	Format   string
	Notes    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DedupKey returns the key ingestion uses to recognise a work it has
// already stored: the source identifier when present, else the file path.
func (w *Work) DedupKey() string {
	if w.SourceIdentifier != "" {
		return "id:" + w.SourceIdentifier
	}
	return "path:" + w.FilePath
}

// Year returns the publication year or zero when unknown.
func (w *Work) Year() int {
	if w.PublicationYear == nil {
		return 0
	}
	return *w.PublicationYear
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
