package orthography

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/folio-archive/folio/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.TextNormaliser = (*Normaliser)(nil)

// letterFold is one literal character substitution.
type letterFold struct {
	from rune
	to   string
}

// letterFolds is applied rune by rune in a single pass after lowercasing.
// Every replacement is plain ASCII, so no output re-enters the table.
// Orthographic i/j and u/v are folded one way only: j to i, v to u.
var letterFolds = []letterFold{
	{'ſ', "s"},
	{'æ', "ae"},
	{'œ', "oe"},
	{'þ', "th"},
	{'ð', "d"},
	{'ƿ', "w"},
	{'ȝ', "y"},
	{'ꝛ', "r"},
	{'ß', "ss"},
	{'ȣ', "ou"},
	{'ꝑ', "p"},
	{'ꝓ', "p"},
	{'ꝙ', "q"},
	{'ꝺ', "d"},
	{'ꝋ', "o"},
	{'j', "i"},
	{'v', "u"},
}

var foldTable = func() map[rune]string {
	m := make(map[rune]string, len(letterFolds))
	for _, f := range letterFolds {
		m[f.from] = f.to
	}
	return m
}()

// defaultVariants maps modern spellings to the historical forms folded
// onto them. Variant keys are written as they read after letter folding.
var defaultVariants = map[string][]string{
	"tragedy":  {"tragedie", "tragoedie"},
	"comedy":   {"comedie"},
	"history":  {"historie"},
	"honor":    {"honour"},
	"color":    {"colour"},
	"labor":    {"labour"},
	"favor":    {"fauour", "fauor"},
	"love":     {"loue"},
	"have":     {"haue"},
	"give":     {"giue"},
	"live":     {"liue"},
	"every":    {"euery"},
	"ever":     {"euer"},
	"never":    {"neuer"},
	"over":     {"ouer"},
	"heaven":   {"heauen"},
	"servant":  {"seruant"},
	"just":     {"iust"},
	"joy":      {"ioy"},
	"judge":    {"iudge"},
	"majesty":  {"maiestie", "maiesty"},
	"only":     {"onely"},
	"do":       {"doe"},
	"go":       {"goe"},
	"she":      {"shee"},
	"we":       {"wee"},
	"he":       {"hee"},
	"me":       {"mee"},
	"been":     {"beene"},
	"self":     {"selfe"},
	"himself":  {"himselfe"},
	"herself":  {"herselfe"},
	"king":     {"kinge"},
	"book":     {"booke"},
	"music":    {"musicke", "musick"},
	"public":   {"publicke", "publick"},
	"that":     {"yt"},
	"them":     {"ym"},
	"with":     {"wt"},
	"our":      {"oure"},
	"poor":     {"poore"},
	"english":  {"englishe"},
	"england":  {"englande"},
}

// Normaliser folds historical orthography into a canonical comparison form.
// It is safe for concurrent use once its variant table is complete.
type Normaliser struct {
	variants map[string]string
}

// New creates a normaliser with the built-in variant table.
func New() *Normaliser {
	n := &Normaliser{variants: make(map[string]string)}
	if err := n.AddVariants(defaultVariants); err != nil {
		panic(fmt.Sprintf("orthography: built-in variants: %v", err))
	}
	return n
}

// AddVariants merges canonical → variants entries into the table.
// An entry is rejected unless the result stays idempotent: the variant
// must already be in folded form and the canonical spelling must
// normalise to itself.
func (n *Normaliser) AddVariants(entries map[string][]string) error {
	merged := make(map[string]string, len(n.variants))
	for k, v := range n.variants {
		merged[k] = v
	}

	canonicals := make([]string, 0, len(entries))
	for c := range entries {
		canonicals = append(canonicals, c)
	}
	sort.Strings(canonicals)

	for _, key := range canonicals {
		canonical := strings.TrimSpace(key)
		for _, variant := range entries[key] {
			variant = strings.TrimSpace(variant)
			if variant == "" || canonical == "" {
				return fmt.Errorf("empty variant entry %q → %q", variant, canonical)
			}
			if folded := foldLetters(variant); folded != variant {
				return fmt.Errorf("variant %q must be written in folded form %q", variant, folded)
			}
			if prev, ok := merged[variant]; ok && prev != canonical {
				return fmt.Errorf("variant %q maps to both %q and %q", variant, prev, canonical)
			}
			merged[variant] = canonical
		}
	}

	candidate := &Normaliser{variants: merged}
	for variant, canonical := range merged {
		if got := candidate.Normalise(canonical); got != canonical {
			return fmt.Errorf("variant %q → %q is not stable: %q normalises to %q",
				variant, canonical, canonical, got)
		}
	}

	n.variants = merged
	return nil
}

// Normalise returns the canonical form of s. Empty input is returned as is.
func (n *Normaliser) Normalise(s string) string {
	if s == "" {
		return s
	}
	return n.replaceWords(foldLetters(s))
}

// Tokens splits s into canonical word tokens.
func (n *Normaliser) Tokens(s string) []string {
	return strings.FieldsFunc(n.Normalise(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Equal reports whether a and b share a canonical form.
func (n *Normaliser) Equal(a, b string) bool {
	return n.Normalise(a) == n.Normalise(b)
}

// Len returns the number of variant spellings known.
func (n *Normaliser) Len() int {
	return len(n.variants)
}

// foldLetters decomposes s, drops every combining mark (nonspacing,
// spacing and enclosing), lowercases and applies the letter table.
func foldLetters(s string) string {
	// transform.Chain is stateful, so each call builds its own.
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.M)))
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Invalid sequences are kept as opaque characters.
		stripped = s
	}
	lowered := strings.ToLower(stripped)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if to, ok := foldTable[r]; ok {
			b.WriteString(to)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// replaceWords swaps every whole word found in the variant table.
// Each word is looked up once; replacements are not re-scanned.
func (n *Normaliser) replaceWords(s string) string {
	if len(n.variants) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	start := -1
	flush := func(end int) {
		word := s[start:end]
		if canonical, ok := n.variants[word]; ok {
			b.WriteString(canonical)
		} else {
			b.WriteString(word)
		}
		start = -1
	}

	for i, r := range s {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			flush(i)
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		flush(len(s))
	}
	return b.String()
}
