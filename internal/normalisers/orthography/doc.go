// Package orthography folds early-modern English text into a canonical
// comparison form.
//
// Normalisation runs in a fixed order:
//
//  1. Compatibility decomposition (NFKD) and removal of combining marks.
//  2. Lowercasing.
//  3. A single pass over a literal letter table (long s, ash, thorn,
//     and the one-way i/j and u/v folds).
//  4. A single pass of whole-word spelling variants.
//
// Both tables are confluent: no replacement produces input for another
// replacement, so Normalise(Normalise(s)) == Normalise(s).
package orthography
