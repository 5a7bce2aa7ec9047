package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/peerresponse/internal/aiconnectors"
	"github.com/peerresponse/internal/logging"
)

// PingView is the presentation of one connectivity check
type PingView struct {
	Provider   aiconnectors.Provider   `json:"provider" yaml:"provider"`
	Model      string                  `json:"model" yaml:"model"`
	Status     aiconnectors.PingStatus `json:"status" yaml:"status"`
	Message    string                  `json:"message" yaml:"message"`
	Hint       string                  `json:"hint,omitempty" yaml:"hint,omitempty"`
	Detail     string                  `json:"detail,omitempty" yaml:"detail,omitempty"`
	DurationMS int64                   `json:"duration_ms" yaml:"duration_ms"`
}

// BuildPing turns connectivity results into views
func BuildPing(results []aiconnectors.PingResult, opts Options) []PingView {
	views := make([]PingView, 0, len(results))
	for _, r := range results {
		v := PingView{
			Provider:   r.Provider,
			Model:      r.Model,
			Status:     r.Status,
			DurationMS: r.Duration.Milliseconds(),
		}
		switch r.Status {
		case aiconnectors.PingOK:
			v.Message = "OK"
		case aiconnectors.PingNoKey:
			v.Message = "No key supplied"
		default:
			v.Message = "Failed"
			v.Hint = Hint(r.Provider)
			if opts.Debug && r.Err != nil {
				v.Detail = logging.Redact(r.Err.Error(), opts.Secrets...)
			}
		}
		views = append(views, v)
	}
	return views
}

// WritePing renders connectivity results in the given format
func WritePing(w io.Writer, format string, views []PingView) error {
	switch strings.ToLower(format) {
	case "", FormatPretty:
	case FormatJSON:
		return WriteJSON(w, views)
	case FormatYAML:
		return WriteYAML(w, views)
	default:
		return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}

	var b strings.Builder
	for _, v := range views {
		style := warnStyle
		switch v.Status {
		case aiconnectors.PingOK:
			style = titleStyle.Foreground(colorSuccess)
		case aiconnectors.PingFailed:
			style = errorStyle
		}

		fmt.Fprintf(&b, "%-10s %s %s\n",
			v.Provider.DisplayName(),
			style.Render(v.Message),
			mutedStyle.Render("("+v.Model+")"))
		if v.Hint != "" {
			b.WriteString("           " + warnStyle.Render(v.Hint) + "\n")
		}
		if v.Detail != "" {
			b.WriteString("           " + mutedStyle.Render(v.Detail) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
