package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-archive/folio/internal/core/domain"
)

var (
	extractText bool
	extractJSON bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [file|work-id]",
	Short: "Show the reading text of a file or stored work",
	Long: `Extracts the document model of an XML file, or of a stored work by its
numeric ID, and prints it as an outline of sections, speeches and lines.

Use --text for the flattened text that is indexed, or --json for the full
document model.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractText, "text", false, "print flattened text only")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output the document model as JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	target := args[0]

	if extractText {
		text, err := loadText(ctx, target)
		if err != nil {
			return err
		}
		cmd.Println(text)
		return nil
	}

	doc, err := loadDocument(ctx, target)
	if err != nil {
		return err
	}

	if extractJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Print(renderDocument(doc))
	return nil
}

// workID returns the target as a work ID when it is numeric and not an
// existing file.
func workID(target string) (int64, bool) {
	if _, err := os.Stat(target); err == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(target, 10, 64)
	return id, err == nil
}

func loadDocument(ctx context.Context, target string) (*domain.LogicalDocument, error) {
	if id, ok := workID(target); ok {
		if workService == nil {
			return nil, errors.New("work service not configured")
		}
		return workService.Render(ctx, id)
	}
	if extractor == nil {
		return nil, errors.New("extractor not configured")
	}
	return extractor.Extract(ctx, target)
}

func loadText(ctx context.Context, target string) (string, error) {
	if id, ok := workID(target); ok {
		if workService == nil {
			return "", errors.New("work service not configured")
		}
		return workService.Text(ctx, id)
	}
	if extractor == nil {
		return "", errors.New("extractor not configured")
	}
	return extractor.ExtractText(ctx, target)
}

// renderDocument draws the document as an indented outline.
func renderDocument(doc *domain.LogicalDocument) string {
	var b strings.Builder

	if doc.Title != "" {
		b.WriteString(titleStyle.Render(doc.Title))
		b.WriteString("\n\n")
	}

	if len(doc.Characters) > 0 {
		b.WriteString(headingStyle.Render("Characters"))
		b.WriteString("\n")
		for _, c := range doc.Characters {
			fmt.Fprintf(&b, "  %s %s\n", speakerStyle.Render(c.Short), mutedStyle.Render(c.Name))
		}
		b.WriteString("\n")
	}

	for i := range doc.Sections {
		renderSection(&b, &doc.Sections[i], 0)
	}
	return b.String()
}

func renderSection(b *strings.Builder, s *domain.Section, depth int) {
	indent := strings.Repeat("  ", depth)
	if s.Title != "" {
		b.WriteString(indent + headingStyle.Render(s.Title) + "\n")
	}

	for _, block := range s.Blocks {
		switch block.Kind {
		case domain.BlockSpeech:
			b.WriteString(indent + "  " + speakerStyle.Render(block.Speaker) + "\n")
			for _, l := range block.Lines {
				b.WriteString(indent + "    " + l.Plain() + "\n")
			}
		case domain.BlockStageDirection:
			b.WriteString(indent + "  " + stageStyle.Render(block.Text) + "\n")
		case domain.BlockHeading:
			b.WriteString(indent + "  " + headingStyle.Render(block.Text) + "\n")
		case domain.BlockNote:
			b.WriteString(indent + "  " + mutedStyle.Render("["+block.Text+"]") + "\n")
		case domain.BlockLineBreak:
			b.WriteString("\n")
		default:
			b.WriteString(indent + "  " + block.Text + "\n")
		}
	}
	b.WriteString("\n")

	for i := range s.Sections {
		renderSection(b, &s.Sections[i], depth+1)
	}
}
