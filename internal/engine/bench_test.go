package engine

import (
	"strings"
	"testing"
)

// ============================================================================
// Setup Helpers
// ============================================================================

func setupLargeEngine(b *testing.B, paragraphs int) *Engine {
	b.Helper()
	var sb strings.Builder
	line := "<p>" + strings.Repeat("word ", 16) + "</p>"
	for range paragraphs {
		sb.WriteString(line)
	}
	return New(WithContent(sb.String()))
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkParseContent(b *testing.B) {
	var sb strings.Builder
	for range 1000 {
		sb.WriteString("<p>some <strong>bold</strong> text</p>")
	}
	content := sb.String()
	b.ResetTimer()

	for b.Loop() {
		_ = New(WithContent(content))
	}
}

func BenchmarkMoveLine(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	_ = e.SetSelection(2, 2)
	b.ResetTimer()

	for b.Loop() {
		_, _ = e.Run(CmdMoveLineDown)
		_, _ = e.Run(CmdMoveLineUp)
	}
}

func BenchmarkSearch(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	b.ResetTimer()

	for b.Loop() {
		_, _ = e.Search("wor")
	}
}

func BenchmarkStatus(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	_ = e.SetSelection(500, 500)
	b.ResetTimer()

	for b.Loop() {
		_ = e.Status()
	}
}

func BenchmarkStats(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	b.ResetTimer()

	for b.Loop() {
		_ = e.Stats()
	}
}

func BenchmarkMarkup(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	b.ResetTimer()

	for b.Loop() {
		_, _ = e.Markup()
	}
}
