package extractors

import (
	"context"
	"fmt"

	"github.com/beevik/etree"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
	"github.com/folio-archive/folio/internal/extractors/play"
	"github.com/folio-archive/folio/internal/extractors/tei"
	"github.com/folio-archive/folio/internal/extractors/xmltext"
)

// SchemaExtractor extracts one markup family from a parsed tree.
type SchemaExtractor interface {
	// Schema returns the family this extractor handles.
	Schema() domain.Schema

	// Matches reports whether a document with this root belongs to the family.
	Matches(root *etree.Element) bool

	// Extract builds the Logical Document. A tree of another family
	// yields domain.ErrSchemaMismatch.
	Extract(doc *etree.Document) (*domain.LogicalDocument, error)

	// ExtractMetadata reads the header. Returns nil, nil when there is none.
	ExtractMetadata(doc *etree.Document, path string) (*domain.Metadata, error)
}

// Registry holds the schema extractors in detection order.
type Registry struct {
	extractors []SchemaExtractor
}

// Verify interface compliance.
var _ driven.DocumentExtractor = (*Registry)(nil)

// NewRegistry creates a registry that tries extractors in the given order.
func NewRegistry(extractors ...SchemaExtractor) *Registry {
	r := &Registry{}
	for _, x := range extractors {
		r.Register(x)
	}
	return r
}

// NewDefaultRegistry returns a registry for TEI and play markup. TEI is
// tried first since its namespace is the stronger signal.
func NewDefaultRegistry() *Registry {
	return NewRegistry(tei.New(), play.New())
}

// Register adds an extractor, replacing any registered for the same schema.
func (r *Registry) Register(x SchemaExtractor) {
	for i, existing := range r.extractors {
		if existing.Schema() == x.Schema() {
			r.extractors[i] = x
			return
		}
	}
	r.extractors = append(r.extractors, x)
}

// Has reports whether an extractor is registered for schema.
func (r *Registry) Has(schema domain.Schema) bool {
	return r.lookup(schema) != nil
}

// Schemas returns the registered schemas in detection order.
func (r *Registry) Schemas() []domain.Schema {
	out := make([]domain.Schema, 0, len(r.extractors))
	for _, x := range r.extractors {
		out = append(out, x.Schema())
	}
	return out
}

func (r *Registry) lookup(schema domain.Schema) SchemaExtractor {
	for _, x := range r.extractors {
		if x.Schema() == schema {
			return x
		}
	}
	return nil
}

// Detect returns the extractor for the document's root element.
func (r *Registry) Detect(doc *etree.Document) (SchemaExtractor, error) {
	root := doc.Root()
	for _, x := range r.extractors {
		if x.Matches(root) {
			return x, nil
		}
	}
	tag := ""
	if root != nil {
		tag = root.Tag
	}
	return nil, fmt.Errorf("root <%s>: %w", tag, domain.ErrUnsupportedSchema)
}

// DetectSchema returns the schema of the document.
func (r *Registry) DetectSchema(doc *etree.Document) (domain.Schema, error) {
	x, err := r.Detect(doc)
	if err != nil {
		return "", err
	}
	return x.Schema(), nil
}

// ExtractTree extracts a parsed tree with the named schema's extractor.
func (r *Registry) ExtractTree(doc *etree.Document, schema domain.Schema) (*domain.LogicalDocument, error) {
	x := r.lookup(schema)
	if x == nil {
		return nil, fmt.Errorf("schema %q: %w", schema, domain.ErrUnsupportedSchema)
	}
	return x.Extract(doc)
}

// Extract parses the file at path and builds its Logical Document.
func (r *Registry) Extract(ctx context.Context, path string) (*domain.LogicalDocument, error) {
	doc, x, err := r.open(ctx, path)
	if err != nil {
		return nil, err
	}
	out, err := x.Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// ExtractText returns the flattened reading text of the file at path.
func (r *Registry) ExtractText(ctx context.Context, path string) (string, error) {
	doc, err := r.Extract(ctx, path)
	if err != nil {
		return "", err
	}
	return Flatten(doc), nil
}

// ExtractMetadata reads the header of the file at path. Files of an
// unknown schema have no header and return nil, nil.
func (r *Registry) ExtractMetadata(ctx context.Context, path string) (*domain.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := xmltext.ParseFile(path)
	if err != nil {
		return nil, err
	}
	x, err := r.Detect(doc)
	if err != nil {
		return nil, nil
	}
	md, err := x.ExtractMetadata(doc, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return md, nil
}

func (r *Registry) open(ctx context.Context, path string) (*etree.Document, SchemaExtractor, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	doc, err := xmltext.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	x, err := r.Detect(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, x, nil
}
