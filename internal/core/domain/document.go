package domain

import (
	"html"
	"strings"
)

// Schema identifies the XML markup family a file belongs to.
type Schema string

const (
	// SchemaTEI is EEBO-TCP TEI markup (TEI or TEI.2 root).
	SchemaTEI Schema = "tei"

	// SchemaPlay is PlayShakespeare play markup (play root).
	SchemaPlay Schema = "play"
)

// String returns the schema name.
func (s Schema) String() string {
	return string(s)
}

// BlockKind tags the variant held by a Block.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockParagraph
	BlockSpeech
	BlockStageDirection
	BlockLine
	BlockLineBreak
	BlockNote
	BlockHighlight
)

var blockKindNames = map[BlockKind]string{
	BlockHeading:        "heading",
	BlockParagraph:      "paragraph",
	BlockSpeech:         "speech",
	BlockStageDirection: "stage_direction",
	BlockLine:           "line",
	BlockLineBreak:      "line_break",
	BlockNote:           "note",
	BlockHighlight:      "highlight",
}

// String returns a stable lower-case name for the kind.
func (k BlockKind) String() string {
	if name, ok := blockKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText lets block kinds serialise by name.
func (k BlockKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Line is one verse or prose line of a speech. A decorative initial
// capital is held apart from the rest of the text.
type Line struct {
	DropCap string `json:"dropcap,omitempty"`
	Text    string `json:"text"`
}

// Plain returns the line as undecorated text.
func (l Line) Plain() string {
	return l.DropCap + l.Text
}

// Markup returns the line with the drop cap wrapped for display.
func (l Line) Markup() string {
	if l.DropCap == "" {
		return html.EscapeString(l.Text)
	}
	return `<span class="dropcap">` + html.EscapeString(l.DropCap) + `</span>` + html.EscapeString(l.Text)
}

// Block is a single unit of content within a Section. Which fields are
// meaningful depends on Kind: Speech uses Speaker and Lines, LineBreak
// uses nothing, every other kind uses Text.
type Block struct {
	Kind    BlockKind `json:"kind"`
	Text    string    `json:"text,omitempty"`
	Speaker string    `json:"speaker,omitempty"`
	Lines   []Line    `json:"lines,omitempty"`
}

// PlainText returns the text the block contributes to a flattened document.
func (b Block) PlainText() string {
	switch b.Kind {
	case BlockLineBreak:
		return ""
	case BlockSpeech:
		parts := make([]string, 0, len(b.Lines))
		for _, l := range b.Lines {
			if p := l.Plain(); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, " ")
	default:
		return b.Text
	}
}

// Section is a titled, ordered group of blocks with optional subsections.
// An empty Title means the section has none.
type Section struct {
	Title    string    `json:"title,omitempty"`
	Blocks   []Block   `json:"blocks,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// Walk visits the section's blocks and then its subsections, depth first.
func (s *Section) Walk(fn func(Block)) {
	for _, b := range s.Blocks {
		fn(b)
	}
	for i := range s.Sections {
		s.Sections[i].Walk(fn)
	}
}

// Character maps a speaker abbreviation to the full persona name.
type Character struct {
	Short string `json:"short"`
	Name  string `json:"name"`
}

// LogicalDocument is the schema-independent reading model of one file.
// Block order within every section equals document order in the source.
type LogicalDocument struct {
	Schema     Schema      `json:"schema"`
	Title      string      `json:"title"`
	Sections   []Section   `json:"sections"`
	Characters []Character `json:"characters,omitempty"`
}

// Walk visits every block in document order.
func (d *LogicalDocument) Walk(fn func(Block)) {
	for i := range d.Sections {
		d.Sections[i].Walk(fn)
	}
}

// Speeches returns every speech block in document order.
func (d *LogicalDocument) Speeches() []Block {
	var out []Block
	d.Walk(func(b Block) {
		if b.Kind == BlockSpeech {
			out = append(out, b)
		}
	})
	return out
}
