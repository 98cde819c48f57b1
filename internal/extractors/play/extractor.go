// Package play extracts the reading model from PlayShakespeare play
// markup: acts, scenes, speeches with their lines, and stage directions.
package play

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/extractors/xmltext"
)

// Extractor builds Logical Documents and metadata from play files.
type Extractor struct{}

// New creates a play extractor.
func New() *Extractor {
	return &Extractor{}
}

// Schema returns the schema this extractor handles.
func (e *Extractor) Schema() domain.Schema {
	return domain.SchemaPlay
}

// Matches reports whether root is a play document: a play root, or any
// un-namespaced root holding acts.
func (e *Extractor) Matches(root *etree.Element) bool {
	if root == nil {
		return false
	}
	if kindOf(root) == kindPlay {
		return true
	}
	return root.Space == "" && root.FindElement(".//act") != nil
}

// Extract returns one section per act. The prologue act comes first and
// scenes become subsections of their act.
func (e *Extractor) Extract(doc *etree.Document) (*domain.LogicalDocument, error) {
	root := doc.Root()
	if !e.Matches(root) {
		tag := ""
		if root != nil {
			tag = root.Tag
		}
		return nil, fmt.Errorf("play: root <%s>: %w", tag, domain.ErrSchemaMismatch)
	}

	out := &domain.LogicalDocument{
		Schema:     domain.SchemaPlay,
		Title:      playTitle(root),
		Characters: characters(root),
	}

	if act := root.FindElement(".//act[@num='" + prologueNum + "']"); act != nil {
		out.Sections = append(out.Sections, prologueSection(act))
	}
	for _, act := range acts(root) {
		if act.SelectAttrValue("num", "") == prologueNum {
			continue
		}
		out.Sections = append(out.Sections, actSection(act))
	}
	for _, epi := range root.SelectElements("epilogue") {
		out.Sections = append(out.Sections, domain.Section{
			Title:  epilogueTitle,
			Blocks: content(epi),
		})
	}

	return out, nil
}

func playTitle(root *etree.Element) string {
	if title := xmltext.Joined(root.FindElement(".//title")); title != "" {
		return title
	}
	return untitledPlay
}

// acts returns the play's top-level acts, or every act when the markup
// wraps them in another container.
func acts(root *etree.Element) []*etree.Element {
	if direct := root.SelectElements("act"); len(direct) > 0 {
		return direct
	}
	return root.FindElements(".//act")
}

// prologueSection holds one untitled subsection per prologue found in
// the act. An act without prologue elements is read like any other act.
func prologueSection(act *etree.Element) domain.Section {
	section := domain.Section{Title: prologueTitle}
	prologues := act.FindElements(".//prologue")
	if len(prologues) == 0 {
		section.Sections, section.Blocks = actContent(act, "")
		return section
	}
	for _, p := range prologues {
		section.Sections = append(section.Sections, domain.Section{Blocks: content(p)})
	}
	return section
}

func actSection(act *etree.Element) domain.Section {
	title := xmltext.Collapse(xmltext.Text(act.SelectElement("acttitle")))
	section := domain.Section{Title: title}
	section.Sections, section.Blocks = actContent(act, title)
	return section
}

// actContent reads an act's scenes, prologues and epilogues as
// subsections, and any speeches or stage directions outside them as the
// act's own blocks.
func actContent(act *etree.Element, actTitle string) ([]domain.Section, []domain.Block) {
	var sections []domain.Section
	var blocks []domain.Block
	for _, c := range act.ChildElements() {
		switch kindOf(c) {
		case kindScene:
			sections = append(sections, domain.Section{
				Title:  sceneTitle(c, actTitle),
				Blocks: content(c),
			})
		case kindPrologue:
			sections = append(sections, domain.Section{Title: prologueTitle, Blocks: content(c)})
		case kindEpilogue:
			sections = append(sections, domain.Section{Title: epilogueTitle, Blocks: content(c)})
		case kindSpeech, kindStageDir:
			blocks = appendContent(blocks, c)
		}
	}
	return sections, blocks
}

// sceneTitle returns the scene's title, or "" when it repeats the act's.
func sceneTitle(scene *etree.Element, actTitle string) string {
	el := scene.SelectElement("scenetitle")
	if el == nil {
		return ""
	}
	title := xmltext.Collapse(xmltext.Text(el))
	if title == actTitle {
		return ""
	}
	return title
}

// content reads the direct speech and stage-direction children of a
// scene, prologue or epilogue in document order.
func content(el *etree.Element) []domain.Block {
	var blocks []domain.Block
	for _, c := range el.ChildElements() {
		blocks = appendContent(blocks, c)
	}
	return blocks
}

func appendContent(blocks []domain.Block, el *etree.Element) []domain.Block {
	switch kindOf(el) {
	case kindSpeech:
		return append(blocks, speech(el)...)
	case kindStageDir:
		if text := xmltext.Collapse(xmltext.Text(el)); text != "" {
			return append(blocks, domain.Block{Kind: domain.BlockStageDirection, Text: text})
		}
	}
	return blocks
}

// speech returns the Speech block for el followed by any stage
// directions embedded in it. Every speech yields exactly one Speech.
func speech(el *etree.Element) []domain.Block {
	block := domain.Block{Kind: domain.BlockSpeech, Speaker: speaker(el)}
	var trailing []domain.Block
	for _, c := range el.ChildElements() {
		switch kindOf(c) {
		case kindLine:
			if l := line(c); l.Plain() != "" {
				block.Lines = append(block.Lines, l)
			}
		case kindStageDir:
			if text := xmltext.Collapse(xmltext.Text(c)); text != "" {
				trailing = append(trailing, domain.Block{Kind: domain.BlockStageDirection, Text: text})
			}
		}
	}
	return append([]domain.Block{block}, trailing...)
}

func speaker(el *etree.Element) string {
	s := el.SelectElement("speaker")
	if s == nil {
		return unknownSpeaker
	}
	if short := strings.TrimSpace(s.SelectAttrValue("short", "")); short != "" {
		return short
	}
	if name := xmltext.Collapse(xmltext.Text(s)); name != "" {
		return name
	}
	return unknownSpeaker
}

// line splits a decorative initial from the rest of the line. The rest
// keeps one leading space when the source separated the two.
func line(el *etree.Element) domain.Line {
	var dropcap string
	var rest strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			rest.WriteString(t.Data)
		case *etree.Element:
			if kindOf(t) == kindDropCap && dropcap == "" {
				dropcap = strings.TrimSpace(xmltext.Text(t))
				continue
			}
			rest.WriteString(xmltext.Text(t))
		}
	}

	raw := rest.String()
	text := xmltext.Collapse(raw)
	if dropcap != "" && text != "" && strings.IndexFunc(raw, unicode.IsSpace) == 0 {
		text = " " + text
	}
	return domain.Line{DropCap: dropcap, Text: text}
}

// characters reads the persona list, sorted by abbreviation. Personas
// missing either a short or full name are skipped.
func characters(root *etree.Element) []domain.Character {
	var out []domain.Character
	for _, persona := range root.FindElements(".//persona") {
		name := persona.SelectElement("persname")
		if name == nil {
			continue
		}
		short := strings.TrimSpace(name.SelectAttrValue("short", ""))
		full := xmltext.Collapse(xmltext.Text(name))
		if short == "" || full == "" {
			continue
		}
		out = append(out, domain.Character{Short: short, Name: full})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Short < out[j].Short })
	return out
}
