package tei

import (
	"strings"

	"github.com/beevik/etree"
)

// elementKind is the closed set of TEI elements the extractor treats
// specially. Everything else is kindOther and is descended into.
type elementKind int

const (
	kindOther elementKind = iota
	kindHeader
	kindText
	kindGroup
	kindFront
	kindBody
	kindBack
	kindDiv
	kindHead
	kindP
	kindLb
	kindNote
	kindHi
	kindLg
	kindL
	kindSp
	kindSpeaker
	kindStage
	kindLeaf
	kindG
	kindGap
	kindChoice
	kindSkip
)

var elementKinds = map[string]elementKind{
	"teiHeader": kindHeader,
	"text":      kindText,
	"group":     kindGroup,
	"front":     kindFront,
	"body":      kindBody,
	"back":      kindBack,
	"div":       kindDiv,
	"div1":      kindDiv,
	"div2":      kindDiv,
	"div3":      kindDiv,
	"div4":      kindDiv,
	"div5":      kindDiv,
	"div6":      kindDiv,
	"div7":      kindDiv,
	"head":      kindHead,
	"p":         kindP,
	"ab":        kindP,
	"lb":        kindLb,
	"note":      kindNote,
	"hi":        kindHi,
	"lg":        kindLg,
	"l":         kindL,
	"sp":        kindSp,
	"speaker":   kindSpeaker,
	"stage":     kindStage,
	"g":         kindG,
	"gap":       kindGap,
	"choice":    kindChoice,

	// Text-bearing leaves rendered as paragraphs.
	"item":       kindLeaf,
	"label":      kindLeaf,
	"trailer":    kindLeaf,
	"byline":     kindLeaf,
	"signed":     kindLeaf,
	"dateline":   kindLeaf,
	"salute":     kindLeaf,
	"titlePart":  kindLeaf,
	"docAuthor":  kindLeaf,
	"docDate":    kindLeaf,
	"docImprint": kindLeaf,
	"bibl":       kindLeaf,

	// Print furniture and page apparatus carry no reading text.
	"pb":        kindSkip,
	"cb":        kindSkip,
	"milestone": kindSkip,
	"fw":        kindSkip,
	"figDesc":   kindSkip,
	"graphic":   kindSkip,
}

func kindOf(el *etree.Element) elementKind {
	if k, ok := elementKinds[el.Tag]; ok {
		return k
	}
	return kindOther
}

// Glyph references marking historical print conventions.
const (
	refEOLHyphen      = "EOLhyphen"
	refAbbrStroke     = "cmbAbbrStroke"
	combiningMacron   = "\u0304"
	gapPlaceholder    = "[gap]"
	teiNamespace      = "http://www.tei-c.org/ns/1.0"
	untitledSection   = "Main Text"
	frontMatterTitle  = "Front Matter"
	backMatterTitle   = "Back Matter"
	unknownSpeaker    = "Unknown Speaker"
	unknownTitle      = "Unknown Title"
	defaultLanguage   = "eng"
)

// hyphenMarks are the characters printers used for a line-end hyphen.
const hyphenMarks = "-‐¬=⸗"

func isEOLHyphen(el *etree.Element) bool {
	return strings.Contains(el.SelectAttrValue("ref", ""), refEOLHyphen)
}

func isAbbrStroke(el *etree.Element) bool {
	return strings.Contains(el.SelectAttrValue("ref", ""), refAbbrStroke)
}
