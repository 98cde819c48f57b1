// Package normalisers holds text normalisation for historical English.
//
// The orthography subpackage folds early-modern letterforms and spelling
// variants into the canonical form the search index matches against.
package normalisers
