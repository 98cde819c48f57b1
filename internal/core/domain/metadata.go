package domain

// Metadata holds the bibliographic fields read from a file's header.
// It is the Metadata Extractor's output and the input to Work creation.
type Metadata struct {
	SourceIdentifier string
	Title            string
	Author           string
	Genre            string
	PublicationYear  *int
	Edition          string
	Attribution      string
	EEBOCitation     string
	VolumeID         string
	Collection       string
	Language         string
	SourceLibrary    string
	Notes            string
}

// ToWork builds an unsaved Work for the file at path.
// Title and author are clamped to the persisted field limits.
func (m *Metadata) ToWork(path string) Work {
	return Work{
		SourceIdentifier: m.SourceIdentifier,
		Title:            Truncate(m.Title, MaxTitleLength),
		Author:           Truncate(m.Author, MaxAuthorLength),
		Genre:            m.Genre,
		PublicationYear:  m.PublicationYear,
		Edition:          m.Edition,
		Attribution:      m.Attribution,
		EEBOCitation:     m.EEBOCitation,
		VolumeID:         m.VolumeID,
		Collection:       m.Collection,
		Language:         m.Language,
		SourceLibrary:    m.SourceLibrary,
		FilePath:         path,
		Format:           FormatXML,
		Notes:            m.Notes,
	}
}
