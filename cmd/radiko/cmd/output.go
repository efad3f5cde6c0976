package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/corey/radiko/internal/adapters/socket"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorRed     = "\033[31m"
	colorGray    = "\033[90m"
)

// useColor is set from --color/--no-color before any command runs.
var useColor bool

func paint(color, s string) string {
	if !useColor {
		return s
	}
	return color + s + colorReset
}

// kindColor picks the color a piece is rendered in.
func kindColor(kind string) string {
	switch kind {
	case "prefix":
		return colorMagenta
	case "root":
		return colorCyan
	case "suffix":
		return colorGreen
	default:
		return colorGray
	}
}

// formatDecompose formats a DecomposeResult for terminal display.
//
//	⚡ 2 words │ eo │ 310µs
//	  malbona  mal·bon·a  prefix root suffix  score 4
//	  zzz      *zzz  failed
func formatDecompose(result *socket.DecomposeResult) string {
	var sb strings.Builder
	header := fmt.Sprintf("⚡ %d words", len(result.Results))
	sb.WriteString(paint(colorBold, header))
	if result.Lexicon != "" {
		sb.WriteString(" │ " + result.Lexicon)
	}
	sb.WriteString(" │ " + result.Elapsed + "\n")

	width := 0
	for _, wr := range result.Results {
		if n := len([]rune(wr.Word)); n > width {
			width = n
		}
	}

	for _, wr := range result.Results {
		pad := strings.Repeat(" ", width-len([]rune(wr.Word)))
		sb.WriteString("  " + wr.Word + pad + "  ")

		if wr.Error != "" {
			sb.WriteString(paint(colorRed, "error: "+wr.Error) + "\n")
			continue
		}
		if wr.Failed {
			text := ""
			if len(wr.Segments) > 0 {
				text = wr.Segments[0].Text
			}
			sb.WriteString(paint(colorYellow, text) + "  " + paint(colorGray, "failed") + "\n")
			continue
		}

		pieces := make([]string, len(wr.Segments))
		kinds := make([]string, len(wr.Segments))
		for i, s := range wr.Segments {
			pieces[i] = paint(kindColor(s.Kind), s.Text)
			kinds[i] = s.Kind
		}
		sb.WriteString(strings.Join(pieces, "·"))
		sb.WriteString("  " + paint(colorGray, strings.Join(kinds, " ")))
		sb.WriteString(fmt.Sprintf("  score %d", wr.Score))
		if wr.Corrected {
			sb.WriteString("  " + paint(colorGray, "corrected"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatGlosses lists each piece with its gloss, one word per block.
func formatGlosses(result *socket.DecomposeResult) string {
	var sb strings.Builder
	for _, wr := range result.Results {
		sb.WriteString(paint(colorBold, wr.Word) + "\n")
		for _, s := range wr.Segments {
			sb.WriteString(fmt.Sprintf("  %-10s %-8s %s\n", s.Text, s.Kind, s.Gloss))
		}
	}
	return sb.String()
}

// formatLint formats a LintResult for terminal display.
func formatLint(result *socket.LintResult, source string) string {
	var sb strings.Builder
	if result.Count == 0 {
		sb.WriteString(paint(colorGreen, "✓ "+source+": no issues") + "\n")
		return sb.String()
	}
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %s: %d issues", source, result.Count)) + "\n")
	for _, is := range result.Issues {
		sb.WriteString(fmt.Sprintf("  #%d %s %q: %s\n", is.Index, paint(colorCyan, is.ID), is.Text, is.Problem))
	}
	return sb.String()
}

// formatLexicons formats a LexiconsResult for terminal display.
func formatLexicons(result *socket.LexiconsResult) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, fmt.Sprintf("⚡ %d lexicons", result.Count)) + "\n")
	for _, lex := range result.Lexicons {
		name := lex.Name
		if name == result.Default {
			name += " (default)"
		}
		sb.WriteString(fmt.Sprintf("  %s  %d morphemes  %d decompositions",
			paint(colorCyan, name), lex.Count, lex.Usage.Decompositions))
		if lex.ImportedAt > 0 {
			sb.WriteString("  " + paint(colorGray, time.Unix(lex.ImportedAt, 0).Format("2006-01-02 15:04")))
		}
		if lex.Source != "" {
			sb.WriteString("  " + paint(colorGray, lex.Source))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatImport formats an ImportResult for terminal display.
func formatImport(result *socket.ImportResult) string {
	s := fmt.Sprintf("⚡ imported %s (%d morphemes)", result.Name, result.Count)
	if result.Issues > 0 {
		s += paint(colorYellow, fmt.Sprintf(", %d lint issues; run: radiko lint %s", result.Issues, result.Name))
	}
	return s + "\n"
}

// formatStats formats a StatsResult for terminal display.
func formatStats(s *socket.StatsResult) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, "⚡ radiko stats") + "\n")
	sb.WriteString(fmt.Sprintf("  Lexicons:        %d\n", s.LexiconCount))
	sb.WriteString(fmt.Sprintf("  Morphemes:       %d\n", s.MorphemeCount))
	sb.WriteString(fmt.Sprintf("  Decompositions:  %d\n", s.Decompositions))
	sb.WriteString(fmt.Sprintf("  Failures:        %d\n", s.Failures))
	sb.WriteString(fmt.Sprintf("  Corrections:     %d\n", s.Corrections))
	if s.DefaultLexicon != "" {
		sb.WriteString(fmt.Sprintf("  Default:         %s\n", s.DefaultLexicon))
	}
	limit := "unbounded"
	if s.StateLimit > 0 {
		limit = fmt.Sprintf("%d states", s.StateLimit)
	}
	sb.WriteString(fmt.Sprintf("  State limit:     %s\n", limit))
	if s.SessionWords > 0 {
		sb.WriteString(fmt.Sprintf("  Session:         %d words, %.1f/min\n", s.SessionWords, s.WordsPerMin))
	}
	return sb.String()
}

// formatHealth formats a HealthResult for terminal display.
func formatHealth(h *socket.HealthResult) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, "⚡ radiko daemon") + "\n")
	sb.WriteString(fmt.Sprintf("  Status:    %s\n", paint(colorGreen, h.Status)))
	sb.WriteString(fmt.Sprintf("  Lexicons:  %d\n", h.LexiconCount))
	sb.WriteString(fmt.Sprintf("  Uptime:    %s\n", h.Uptime))
	return sb.String()
}
