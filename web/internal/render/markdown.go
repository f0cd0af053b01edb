package render

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// Markdown converts operator-supplied markdown (login page notices) to safe HTML
func Markdown(markdown string) template.HTML {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}

	unsafe := blackfriday.Run([]byte(markdown))

	// Sanitize the HTML to prevent XSS
	safe := bluemonday.UGCPolicy().SanitizeBytes(unsafe)

	return template.HTML(safe)
}
