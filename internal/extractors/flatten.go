package extractors

import (
	"strings"

	"github.com/folio-archive/folio/internal/core/domain"
)

// Flatten renders a Logical Document as one space-joined string for
// indexing. Section titles, line breaks and drop-cap markup are dropped;
// speech lines contribute their undecorated text.
func Flatten(doc *domain.LogicalDocument) string {
	if doc == nil {
		return ""
	}
	var b strings.Builder
	doc.Walk(func(block domain.Block) {
		text := block.PlainText()
		if text == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text)
	})
	return b.String()
}
