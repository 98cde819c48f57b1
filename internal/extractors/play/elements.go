package play

import "github.com/beevik/etree"

// elementKind is the closed set of play-markup elements the extractor
// recognises. Anything else is kindOther and is ignored inside scenes.
type elementKind int

const (
	kindOther elementKind = iota
	kindPlay
	kindTitle
	kindAct
	kindActTitle
	kindScene
	kindSceneTitle
	kindPrologue
	kindEpilogue
	kindSpeech
	kindSpeaker
	kindLine
	kindDropCap
	kindStageDir
	kindPersona
	kindPersName
)

var elementKinds = map[string]elementKind{
	"play":       kindPlay,
	"title":      kindTitle,
	"act":        kindAct,
	"acttitle":   kindActTitle,
	"scene":      kindScene,
	"scenetitle": kindSceneTitle,
	"prologue":   kindPrologue,
	"epilogue":   kindEpilogue,
	"speech":     kindSpeech,
	"speaker":    kindSpeaker,
	"line":       kindLine,
	"dropcap":    kindDropCap,
	"stagedir":   kindStageDir,
	"persona":    kindPersona,
	"persname":   kindPersName,
}

func kindOf(el *etree.Element) elementKind {
	if k, ok := elementKinds[el.Tag]; ok {
		return k
	}
	return kindOther
}

const (
	prologueTitle  = "Prologue"
	epilogueTitle  = "Epilogue"
	untitledPlay   = "Untitled Play"
	unknownSpeaker = "Unknown Speaker"
	prologueNum    = "0"
)

// Defaults shared by every play in the First Folio collection.
const (
	defaultAuthor  = "William Shakespeare"
	defaultEdition = "First Folio"
	defaultGenre   = "Play"
	defaultNotes   = "Downloaded from PlayShakespeare.com"
	folioYear      = 1623
	folioLanguage  = "eng"
)
