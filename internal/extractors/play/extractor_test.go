package play

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/extractors/xmltext"
)

func parse(t *testing.T, xml string) *etree.Document {
	t.Helper()
	doc, err := xmltext.ParseBytes([]byte(xml))
	require.NoError(t, err)
	return doc
}

func extract(t *testing.T, xml string) *domain.LogicalDocument {
	t.Helper()
	out, err := New().Extract(parse(t, xml))
	require.NoError(t, err)
	require.NotNil(t, out)
	return out
}

const hamletXML = `<play>
  <title>The Tragedie of <lb/>Hamlet</title>
  <personae>
    <persona><persname short="POL">Polonius</persname></persona>
    <persona><persname short="HAM">Hamlet, Prince of Denmark</persname></persona>
    <persona><persname>Nameless</persname></persona>
  </personae>
  <act num="1">
    <acttitle>Act 1</acttitle>
    <scene num="1">
      <scenetitle>Act 1</scenetitle>
      <speech>
        <speaker short="HAM">Hamlet.</speaker>
        <line><dropcap>T</dropcap>o be, or not to be,</line>
        <line>that is the question.</line>
      </speech>
      <stagedir>Exit Hamlet.</stagedir>
    </scene>
  </act>
</play>`

func TestNew(t *testing.T) {
	e := New()
	require.NotNil(t, e)
	assert.Equal(t, domain.SchemaPlay, e.Schema())
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want bool
	}{
		{"play root", `<play/>`, true},
		{"acts under other root", `<drama><body><act/></body></drama>`, true},
		{"tei", `<TEI xmlns="http://www.tei-c.org/ns/1.0"><text/></TEI>`, false},
		{"unrelated", `<html><body/></html>`, false},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Matches(parse(t, tt.xml).Root()))
		})
	}
}

func TestExtract_SchemaMismatch(t *testing.T) {
	out, err := New().Extract(parse(t, `<TEI xmlns="http://www.tei-c.org/ns/1.0"/>`))
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestExtract_SingleSpeechScene(t *testing.T) {
	out := extract(t, hamletXML)

	assert.Equal(t, domain.SchemaPlay, out.Schema)
	assert.Equal(t, "The Tragedie of Hamlet", out.Title)

	require.Len(t, out.Sections, 1)
	act := out.Sections[0]
	assert.Equal(t, "Act 1", act.Title)
	assert.Empty(t, act.Blocks)

	require.Len(t, act.Sections, 1)
	scene := act.Sections[0]
	assert.Empty(t, scene.Title, "scene title identical to act title is suppressed")

	require.Len(t, scene.Blocks, 2)
	speech := scene.Blocks[0]
	assert.Equal(t, domain.BlockSpeech, speech.Kind)
	assert.Equal(t, "HAM", speech.Speaker)
	assert.Equal(t, []domain.Line{
		{DropCap: "T", Text: "o be, or not to be,"},
		{Text: "that is the question."},
	}, speech.Lines)
	assert.Equal(t, domain.Block{Kind: domain.BlockStageDirection, Text: "Exit Hamlet."}, scene.Blocks[1])
}

func TestExtract_Characters(t *testing.T) {
	out := extract(t, hamletXML)
	assert.Equal(t, []domain.Character{
		{Short: "HAM", Name: "Hamlet, Prince of Denmark"},
		{Short: "POL", Name: "Polonius"},
	}, out.Characters)
}

func TestExtract_SpeakerFallbacks(t *testing.T) {
	xml := `<play><act num="1"><scene>
		<speech><speaker>Ghost.</speaker><line>Mark me.</line></speech>
		<speech><speaker short=""> </speaker><line>Who's there?</line></speech>
		<speech><line>Nay, answer me.</line></speech>
	</scene></act></play>`

	speeches := extract(t, xml).Speeches()
	require.Len(t, speeches, 3)
	assert.Equal(t, "Ghost.", speeches[0].Speaker)
	assert.Equal(t, "Unknown Speaker", speeches[1].Speaker)
	assert.Equal(t, "Unknown Speaker", speeches[2].Speaker)
}

func TestExtract_SpeechesPreserved(t *testing.T) {
	xml := `<play><act num="1"><acttitle>Act 1</acttitle>
		<scene><scenetitle>Scene 1</scenetitle>
			<speech><speaker short="BAR"/><line>Who's there?</line></speech>
			<speech><speaker short="FRA"/><line>Nay, answer me.</line></speech>
		</scene>
		<scene><scenetitle>Scene 2</scenetitle>
			<speech><speaker short="KING"/></speech>
			<speech><speaker short="HAM"/><line>A little more than kin.</line></speech>
		</scene>
	</act></play>`

	out := extract(t, xml)
	speeches := out.Speeches()

	var speakers []string
	for _, s := range speeches {
		speakers = append(speakers, s.Speaker)
	}
	assert.Equal(t, []string{"BAR", "FRA", "KING", "HAM"}, speakers)
	assert.Empty(t, speeches[2].Lines)
	assert.Equal(t, "Scene 1", out.Sections[0].Sections[0].Title)
	assert.Equal(t, "Scene 2", out.Sections[0].Sections[1].Title)
}

func TestExtract_StageDirectionInsideSpeech(t *testing.T) {
	xml := `<play><act num="1"><scene><speech><speaker short="HAM"/>
		<line>Alas, poor Yorick!</line>
		<stagedir>Takes the skull.</stagedir>
		<line>I knew him.</line>
	</speech><stagedir>  </stagedir></scene></act></play>`

	blocks := extract(t, xml).Sections[0].Sections[0].Blocks
	require.Len(t, blocks, 2)
	assert.Len(t, blocks[0].Lines, 2)
	assert.Equal(t, "Takes the skull.", blocks[1].Text)
}

func TestLine_DropCap(t *testing.T) {
	tests := []struct {
		name  string
		xml   string
		want  domain.Line
		plain string
	}{
		{"joined", `<line><dropcap>W</dropcap>ho's there?</line>`, domain.Line{DropCap: "W", Text: "ho's there?"}, "Who's there?"},
		{"separate word", `<line><dropcap>O</dropcap> Romeo, Romeo</line>`, domain.Line{DropCap: "O", Text: " Romeo, Romeo"}, "O Romeo, Romeo"},
		{"no dropcap", `<line>  plain   text </line>`, domain.Line{Text: "plain text"}, "plain text"},
		{"nested markup", `<line>the <foreign>mise en scène</foreign> here</line>`, domain.Line{Text: "the mise en scène here"}, "the mise en scène here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := line(parse(t, tt.xml).Root())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.plain, got.Plain())
		})
	}
}

func TestExtract_EmptyLinesDropped(t *testing.T) {
	xml := `<play><act num="1"><scene><speech><speaker short="A"/><line> </line><line>Speak.</line></speech></scene></act></play>`
	speeches := extract(t, xml).Speeches()
	require.Len(t, speeches, 1)
	assert.Equal(t, []domain.Line{{Text: "Speak."}}, speeches[0].Lines)
}

func TestExtract_Prologue(t *testing.T) {
	xml := `<play><title>Romeo and Juliet</title>
		<act num="0"><prologue><speech><speaker short="CHORUS"/><line>Two households, both alike in dignity,</line></speech></prologue></act>
		<act num="1"><acttitle>Act 1</acttitle><scene><scenetitle>Scene 1</scenetitle><stagedir>Enter Sampson.</stagedir></scene></act>
	</play>`

	out := extract(t, xml)
	require.Len(t, out.Sections, 2)

	prologue := out.Sections[0]
	assert.Equal(t, "Prologue", prologue.Title)
	require.Len(t, prologue.Sections, 1)
	assert.Empty(t, prologue.Sections[0].Title)
	assert.Equal(t, "CHORUS", prologue.Sections[0].Blocks[0].Speaker)

	assert.Equal(t, "Act 1", out.Sections[1].Title)
}

func TestExtract_PrologueWithoutPrologueElements(t *testing.T) {
	xml := `<play><act num="0"><scene><stagedir>Flourish.</stagedir></scene></act></play>`

	out := extract(t, xml)
	require.Len(t, out.Sections, 1)
	assert.Equal(t, "Prologue", out.Sections[0].Title)
	require.Len(t, out.Sections[0].Sections, 1)
	assert.Equal(t, "Flourish.", out.Sections[0].Sections[0].Blocks[0].Text)
}

func TestExtract_Epilogue(t *testing.T) {
	xml := `<play>
		<act num="5"><acttitle>Act 5</acttitle>
			<scene><stagedir>Exeunt.</stagedir></scene>
			<epilogue><speech><speaker short="PUCK"/><line>If we shadows have offended,</line></speech></epilogue>
		</act>
		<epilogue><stagedir>Finis.</stagedir></epilogue>
	</play>`

	out := extract(t, xml)
	require.Len(t, out.Sections, 2)
	require.Len(t, out.Sections[0].Sections, 2)
	assert.Equal(t, "Epilogue", out.Sections[0].Sections[1].Title)
	assert.Equal(t, "PUCK", out.Sections[0].Sections[1].Blocks[0].Speaker)
	assert.Equal(t, "Epilogue", out.Sections[1].Title)
	assert.Equal(t, "Finis.", out.Sections[1].Blocks[0].Text)
}

func TestExtract_MissingElementsDegrade(t *testing.T) {
	out := extract(t, `<play><act><scene/></act></play>`)
	assert.Equal(t, "Untitled Play", out.Title)
	require.Len(t, out.Sections, 1)
	assert.Empty(t, out.Sections[0].Title)
	assert.Empty(t, out.Characters)
}
