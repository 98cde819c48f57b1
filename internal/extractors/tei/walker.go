package tei

import (
	"github.com/beevik/etree"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/extractors/xmltext"
)

type blockHandler func(w *sectionWalker, el *etree.Element)

// blockHandlers maps each element kind to the block it produces inside
// a section. Kinds absent from the table are containers.
var blockHandlers map[elementKind]blockHandler

func init() {
	blockHandlers = map[elementKind]blockHandler{
		kindHead:    (*sectionWalker).heading,
		kindP:       (*sectionWalker).paragraph,
		kindLeaf:    (*sectionWalker).paragraph,
		kindSpeaker: (*sectionWalker).paragraph,
		kindGap:     (*sectionWalker).inlineLeaf,
		kindG:       (*sectionWalker).inlineLeaf,
		kindChoice:  (*sectionWalker).inlineLeaf,
		kindLb:      (*sectionWalker).lineBreak,
		kindNote:    (*sectionWalker).note,
		kindHi:      (*sectionWalker).highlight,
		kindLg:      (*sectionWalker).lineGroup,
		kindL:       (*sectionWalker).line,
		kindSp:      (*sectionWalker).speech,
		kindStage:   (*sectionWalker).stage,
		kindSkip:    func(*sectionWalker, *etree.Element) {},
	}
}

// sectionWalker collects the blocks of one section in a single top-down
// pass. Nested divs are flattened into the section, and each heading
// text is emitted at most once per section.
type sectionWalker struct {
	section domain.Section
	seen    map[string]bool
}

func newSectionWalker(title string) *sectionWalker {
	return &sectionWalker{
		section: domain.Section{Title: title},
		seen:    make(map[string]bool),
	}
}

// result returns the section, or nil when it holds no content.
func (w *sectionWalker) result() *domain.Section {
	for _, b := range w.section.Blocks {
		if b.Kind != domain.BlockLineBreak {
			return &w.section
		}
	}
	return nil
}

func (w *sectionWalker) add(kind domain.BlockKind, text string) {
	if text == "" && kind != domain.BlockLineBreak {
		return
	}
	w.section.Blocks = append(w.section.Blocks, domain.Block{Kind: kind, Text: text})
}

func (w *sectionWalker) addNotes(notes []string) {
	for _, n := range notes {
		w.add(domain.BlockNote, n)
	}
}

func (w *sectionWalker) dispatch(el *etree.Element) {
	if h, ok := blockHandlers[kindOf(el)]; ok {
		h(w, el)
		return
	}
	w.container(el)
}

func (w *sectionWalker) container(el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			w.charData(t.Data)
		case *etree.Element:
			w.dispatch(t)
		}
	}
}

// charData keeps stray text found between block elements.
func (w *sectionWalker) charData(s string) {
	w.add(domain.BlockParagraph, xmltext.Collapse(s))
}

func (w *sectionWalker) heading(el *etree.Element) {
	text, notes := inlineChildren(el)
	if text != "" && !w.seen[text] {
		w.seen[text] = true
		w.add(domain.BlockHeading, text)
	}
	w.addNotes(notes)
}

func (w *sectionWalker) paragraph(el *etree.Element) {
	text, notes := inlineChildren(el)
	w.add(domain.BlockParagraph, text)
	w.addNotes(notes)
}

func (w *sectionWalker) inlineLeaf(el *etree.Element) {
	text, notes := inlineElement(el)
	w.add(domain.BlockParagraph, text)
	w.addNotes(notes)
}

func (w *sectionWalker) lineBreak(*etree.Element) {
	w.add(domain.BlockLineBreak, "")
}

func (w *sectionWalker) note(el *etree.Element) {
	text, nested := inlineChildren(el)
	w.add(domain.BlockNote, text)
	w.addNotes(nested)
}

func (w *sectionWalker) highlight(el *etree.Element) {
	text, notes := inlineChildren(el)
	w.add(domain.BlockHighlight, text)
	w.addNotes(notes)
}

// lineGroup emits the group's lines in document order, descending into
// nested groups, and closes the group with a line break.
func (w *sectionWalker) lineGroup(el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			w.charData(t.Data)
		case *etree.Element:
			switch kindOf(t) {
			case kindL:
				w.line(t)
			case kindLg:
				w.lineGroup(t)
			default:
				w.dispatch(t)
			}
		}
	}
	w.add(domain.BlockLineBreak, "")
}

func (w *sectionWalker) line(el *etree.Element) {
	text, notes := inlineChildren(el)
	w.add(domain.BlockLine, text)
	w.addNotes(notes)
}

func (w *sectionWalker) stage(el *etree.Element) {
	text, notes := inlineChildren(el)
	w.add(domain.BlockStageDirection, text)
	w.addNotes(notes)
}

// speech emits one Speech block per sp. Stage directions and notes
// inside the speech follow it.
func (w *sectionWalker) speech(el *etree.Element) {
	block := domain.Block{Kind: domain.BlockSpeech}
	var trailing []domain.Block

	var collect func(*etree.Element)
	collect = func(parent *etree.Element) {
		for _, c := range parent.ChildElements() {
			switch kindOf(c) {
			case kindSpeaker:
				if block.Speaker == "" {
					block.Speaker, _ = inlineChildren(c)
				}
			case kindLg:
				collect(c)
			case kindStage:
				if text, _ := inlineChildren(c); text != "" {
					trailing = append(trailing, domain.Block{Kind: domain.BlockStageDirection, Text: text})
				}
			case kindSkip, kindLb:
			default:
				text, notes := inlineChildren(c)
				if kindOf(c) == kindNote {
					notes = append([]string{text}, notes...)
					text = ""
				}
				if text != "" {
					block.Lines = append(block.Lines, domain.Line{Text: text})
				}
				for _, n := range notes {
					if n != "" {
						trailing = append(trailing, domain.Block{Kind: domain.BlockNote, Text: n})
					}
				}
			}
		}
	}
	collect(el)

	if block.Speaker == "" {
		block.Speaker = unknownSpeaker
	}
	w.section.Blocks = append(w.section.Blocks, block)
	w.section.Blocks = append(w.section.Blocks, trailing...)
}
