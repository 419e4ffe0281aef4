package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	json "github.com/goccy/go-json"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

// Chunking keeps each piece well under typical agent context budgets while
// splitting only on paragraph boundaries.
const defaultChunkSize = 4000

func newVocCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voc",
		Short: "Voice-of-customer preprocessing for raw transcripts",
	}
	cmd.AddCommand(newVocChunksCmd(a), newVocJSONCmd(a))
	return cmd
}

func newVocChunksCmd(a *app) *cobra.Command {
	var chunkSize int

	cmd := &cobra.Command{
		Use:   "convert-to-chunks <file>",
		Short: "Split a transcript into paragraph-aligned chunk files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading transcript: %w", err)
			}
			chunks := splitChunks(string(data), chunkSize)
			if len(chunks) == 0 {
				return fmt.Errorf("%s is empty", args[0])
			}

			base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			outDir := base + "-chunks"
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", outDir, err)
			}
			for i, chunk := range chunks {
				name := filepath.Join(outDir, fmt.Sprintf("chunk-%03d.md", i+1))
				if err := os.WriteFile(name, []byte(chunk), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", name, err)
				}
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("✓ wrote %d chunks to %s", len(chunks), outDir)))
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk-size", defaultChunkSize, "maximum characters per chunk")
	return cmd
}

// vocChunk is the JSON wrapper the extraction prompt embeds.
type vocChunk struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func newVocJSONCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chunk-to-json <chunkfile>",
		Short: "Wrap a chunk file as a JSON document for prompt embedding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading chunk: %w", err)
			}
			chunk := vocChunk{
				ID:        model.NewID(),
				Source:    filepath.Base(args[0]),
				Text:      string(data),
				CreatedAt: time.Now().UTC(),
			}
			out, err := json.MarshalIndent(chunk, "", "  ")
			if err != nil {
				return err
			}
			target := strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".json"
			if err := os.WriteFile(target, append(out, '\n'), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}
			fmt.Println(successStyle.Render("✓ wrote " + target))
			return nil
		},
	}
}

// splitChunks breaks text into pieces of at most maxChars, splitting only
// between paragraphs. A single oversized paragraph becomes its own chunk.
func splitChunks(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = defaultChunkSize
	}
	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")

	var chunks []string
	var current strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p)+2 > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
