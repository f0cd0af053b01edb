package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// renderMarkdown renders markdown content, using glamour for terminal output or plain text otherwise
func renderMarkdown(w io.Writer, markdown string, theme string) string {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return markdown
	}

	rendered, err := glamour.Render(markdown, theme)
	if err != nil {
		// Fall back to plain markdown if rendering fails
		return markdown
	}
	return rendered
}

// renderBody formats a response body for display. JSON is indented and, on
// a terminal, highlighted as a fenced code block; anything else is printed
// as received.
func renderBody(w io.Writer, body []byte, theme string) string {
	var indented bytes.Buffer
	if err := json.Indent(&indented, body, "", "  "); err != nil {
		return string(body)
	}

	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return indented.String() + "\n"
	}
	return renderMarkdown(w, "```json\n"+indented.String()+"\n```\n", theme)
}

// getTheme returns the theme from the context, or "auto" if none is set
func getTheme(ctx *Context) string {
	if ctx == nil || ctx.Rendering.Theme == "" {
		return "auto"
	}
	return ctx.Rendering.Theme
}
