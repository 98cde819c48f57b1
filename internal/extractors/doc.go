// Package extractors turns corpus XML files into the reading model and
// bibliographic metadata.
//
// Each supported markup family has its own subpackage (tei, play). The
// Registry detects a file's schema from its root element and dispatches
// to the matching extractor. Registry implements driven.DocumentExtractor.
package extractors
