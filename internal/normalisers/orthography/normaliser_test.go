package orthography

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalise_Empty(t *testing.T) {
	assert.Equal(t, "", New().Normalise(""))
}

func TestNormalise_Cases(t *testing.T) {
	n := New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "HAMLET", "hamlet"},
		{"long s", "Moſt", "most"},
		{"ash ligature", "Æneas", "aeneas"},
		{"oe ligature", "Œdipus", "oedipus"},
		{"thorn", "þe", "the"},
		{"eth", "ðat", "dat"},
		{"diacritics stripped", "naïve café", "naiue cafe"},
		{"macron abbreviation", "cōmaundement", "comaundement"},
		{"spacing mark stripped", "ca\u0903t", "cat"},
		{"enclosing mark stripped", "da\u20DDy", "day"},
		{"fi ligature", "ﬁrst", "first"},
		{"v folds to u", "vpon", "upon"},
		{"j folds to i", "Iohn and Joan", "iohn and ioan"},
		{"tragedie", "The Tragedie of Hamlet", "the tragedy of hamlet"},
		{"honour", "Honour", "honor"},
		{"loue", "Loue", "love"},
		{"modern love stays love", "love", "love"},
		{"haue", "I haue", "i have"},
		{"iust", "a iust man", "a just man"},
		{"yt abbreviation", "yt is", "that is"},
		{"word boundary respected", "louely", "louely"},
		{"punctuation kept", "Loue, honour!", "love, honor!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalise(tt.input))
		})
	}
}

func TestNormalise_Idempotent(t *testing.T) {
	n := New()
	inputs := []string{
		"",
		"The moſt lamentable Tragedie of Romeo and Iuliet",
		"Loue's Labour's loſt",
		"Æ Œ Þ Ð ſ ß",
		"vnto the Kinges moſt excellent Maieſtie",
		"A iuſt and true relation of euery thing",
		"THE FIRST PART OF HENRY THE SIXT",
		"love have give live ever never over heaven servant just joy judge majesty",
		"cōmaundement naïve café ﬁrst",
		"123 ye olde shoppe, yt & ym; wt",
		"mixed\tspacing\nand  lines",
		"\xff\xfe invalid bytes",
		"spacing ca\u0903t and enclosing d\u20DDay",
		"stacked e\u0301\u0903\u20DD marks",
	}

	for _, in := range inputs {
		once := n.Normalise(in)
		twice := n.Normalise(once)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestNormalise_VariantSpellingsConverge(t *testing.T) {
	n := New()

	assert.True(t, n.Equal("Loue", "love"))
	assert.True(t, n.Equal("Maiestie", "majesty"))
	assert.True(t, n.Equal("euery", "every"))
	assert.True(t, n.Equal("moſt", "most"))
	assert.False(t, n.Equal("love", "live"))
}

func TestTokens(t *testing.T) {
	n := New()

	tokens := n.Tokens("The Tragedie of King Lear, 1608.")

	assert.Equal(t, []string{"the", "tragedy", "of", "king", "lear", "1608"}, tokens)
}

func TestAddVariants_RejectsUnfoldedVariant(t *testing.T) {
	n := New()

	err := n.AddVariants(map[string][]string{"vow": {"vowe"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "folded form")
}

func TestAddVariants_RejectsConflictingTarget(t *testing.T) {
	n := New()

	err := n.AddVariants(map[string][]string{"lover": {"loue"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "maps to both")
}

func TestAddVariants_RejectsUnstableCanonical(t *testing.T) {
	n := New()

	// "loue" is itself a variant of "love", so it cannot be a target.
	err := n.AddVariants(map[string][]string{"loue": {"louee"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not stable")
}

func TestAddVariants_FailureLeavesTableUntouched(t *testing.T) {
	n := New()
	before := n.Len()

	_ = n.AddVariants(map[string][]string{"ok": {"okee"}, "loue": {"louee"}})

	assert.Equal(t, before, n.Len())
	assert.Equal(t, "okee", n.Normalise("okee"))
}

func TestAddVariants_Success(t *testing.T) {
	n := New()

	err := n.AddVariants(map[string][]string{"physic": {"phisicke", "physicke"}})
	require.NoError(t, err)

	assert.Equal(t, "physic", n.Normalise("Phiſicke"))
	assert.Equal(t, "physic", n.Normalise(n.Normalise("Phiſicke")))
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "variants.yaml")
	content := "variants:\n  physic: [phisicke]\n  clothes: [clothes, cloathes]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	n, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "physic", n.Normalise("phisicke"))
	assert.Equal(t, "clothes", n.Normalise("Cloathes"))
	assert.Equal(t, "love", n.Normalise("loue"))
}

func TestNewFromFile_EmptyPath(t *testing.T) {
	n, err := NewFromFile("")
	require.NoError(t, err)
	assert.Equal(t, New().Len(), n.Len())
}

func TestNewFromFile_Missing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewFromFile_InvalidEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "variants.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variants:\n  vow: [vowe]\n"), 0600))

	_, err := NewFromFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestPackageNormalise(t *testing.T) {
	assert.Equal(t, "the tragedy", Normalise("The Tragedie"))
}
