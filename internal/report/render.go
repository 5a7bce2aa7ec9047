package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"

	"github.com/peerresponse/internal/pipeline"
)

// Output formats
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// Formats lists the accepted output formats
var Formats = []string{FormatPretty, FormatJSON, FormatYAML}

var (
	colorTitle   = lipgloss.Color("#7aa2f7")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorWarning = lipgloss.Color("#e0af68")
	colorError   = lipgloss.Color("#f7768e")
	colorMuted   = lipgloss.Color("#565f89")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorTitle).
			Bold(true)

	finalTitleStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true).
			Underline(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

var markdown = goldmark.New(
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Write renders rep in the given format
func Write(w io.Writer, format string, rep *Report) error {
	switch strings.ToLower(format) {
	case "", FormatPretty:
		return WritePretty(w, rep)
	case FormatJSON:
		return WriteJSON(w, rep)
	case FormatYAML:
		return WriteYAML(w, rep)
	default:
		return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WritePretty writes a terminal rendering of every stage followed by the final reply
func WritePretty(w io.Writer, rep *Report) error {
	var b strings.Builder

	for _, s := range rep.Stages {
		b.WriteString(titleStyle.Render(s.Title))
		b.WriteString(" ")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("[%s · %s]", s.Provider.DisplayName(), s.Model)))
		b.WriteString("\n")

		switch s.Status {
		case pipeline.StatusOK:
			b.WriteString(s.Text)
		case pipeline.StatusFailed:
			b.WriteString(errorStyle.Render(s.Message))
			if s.Hint != "" {
				b.WriteString("\n")
				b.WriteString(warnStyle.Render(s.Hint))
			}
			if s.Detail != "" {
				b.WriteString("\n")
				b.WriteString(mutedStyle.Render(s.Detail))
			}
		default:
			b.WriteString(warnStyle.Render(s.Message))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(finalTitleStyle.Render(FinalTitle))
	b.WriteString("\n")
	if rep.FinalText != "" {
		b.WriteString(panelStyle.Render(rep.FinalText))
	} else {
		b.WriteString(warnStyle.Render("No final reply was produced."))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Status: " + rep.ClosedLoop))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderHTML converts the markdown of a reply to HTML. Raw HTML in the
// source is dropped.
func RenderHTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
