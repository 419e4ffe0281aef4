package main

import (
	"strings"
	"testing"
)

func TestSplitChunksParagraphBoundaries(t *testing.T) {
	text := "para one\n\npara two\n\npara three"
	chunks := splitChunks(text, 12)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3: %q", len(chunks), chunks)
	}
	for _, c := range chunks {
		if strings.Contains(c, "\n\n") {
			t.Errorf("chunk spans paragraphs: %q", c)
		}
	}
}

func TestSplitChunksMergesSmallParagraphs(t *testing.T) {
	text := "a\n\nb\n\nc"
	chunks := splitChunks(text, 100)
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if chunks[0] != "a\n\nb\n\nc" {
		t.Errorf("chunk = %q", chunks[0])
	}
}

func TestSplitChunksOversizedParagraph(t *testing.T) {
	big := strings.Repeat("x", 50)
	chunks := splitChunks(big, 10)
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1 (oversized paragraph stays whole)", len(chunks))
	}
}

func TestSplitChunksSkipsBlank(t *testing.T) {
	chunks := splitChunks("\n\n   \n\n", 100)
	if len(chunks) != 0 {
		t.Errorf("chunks = %d, want 0 for blank input", len(chunks))
	}
}
