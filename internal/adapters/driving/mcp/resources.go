package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/folio-archive/folio/internal/core/domain"
)

const uriScheme = "folio://"

// worksListLimit caps the works listed by the folio://works resource.
const worksListLimit = 100

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "works",
		Name:        "works",
		Description: "The first stored works, ordered by ID",
		MIMEType:    "application/json",
	}, s.handleWorksResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "works/{id}",
		Name:        "work-text",
		Description: "Flattened reading text of a stored work",
		MIMEType:    "text/plain",
	}, s.handleWorkTextResource)
}

type workInfo struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author,omitempty"`
	Year       int    `json:"year,omitempty"`
	Collection string `json:"collection"`
	URI        string `json:"uri"`
}

func (s *Server) handleWorksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Works == nil {
		return textResult(req.Params.URI, "application/json", "[]"), nil
	}

	works, err := s.ports.Works.List(ctx, 0, worksListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing works: %w", err)
	}

	infos := make([]workInfo, len(works))
	for i := range works {
		w := &works[i]
		infos[i] = workInfo{
			ID:         w.ID,
			Title:      w.Title,
			Author:     w.Author,
			Year:       w.Year(),
			Collection: w.Collection,
			URI:        workURI(w.ID),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling works: %w", err)
	}
	return textResult(req.Params.URI, "application/json", string(data)), nil
}

func (s *Server) handleWorkTextResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Works == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id, ok := extractWorkID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	text, err := s.ports.Works.Text(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading work %d: %w", id, err)
	}
	return textResult(req.Params.URI, "text/plain", text), nil
}

func textResult(uri, mimeType, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeType,
			Text:     text,
		}},
	}
}

func workURI(id int64) string {
	return uriScheme + "works/" + strconv.FormatInt(id, 10)
}

// extractWorkID parses the ID from a URI like folio://works/{id}.
func extractWorkID(uri string) (int64, bool) {
	const prefix = uriScheme + "works/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(uri, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
