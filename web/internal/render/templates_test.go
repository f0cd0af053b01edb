package render

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	ts, err := LoadTemplates()
	require.NoError(t, err)
	require.Equal(t, []string{"home.html", "login.html"}, ts.Names())
}

func TestLoginTemplateFormIDs(t *testing.T) {
	ts, err := LoadTemplates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ts.Execute(&buf, "login.html", map[string]interface{}{
		"Alert":  "Invalid username or password",
		"Notice": "**Closed** on holidays",
	}))

	html := buf.String()
	for _, want := range []string{
		`id="login-form"`,
		`id="username"`,
		`id="password"`,
		`role="alert">Invalid username or password</div>`,
		`<strong>Closed</strong>`,
	} {
		require.Contains(t, html, want)
	}
}

func TestExecuteUnknownPage(t *testing.T) {
	ts, err := LoadTemplates()
	require.NoError(t, err)
	require.Error(t, ts.Execute(&bytes.Buffer{}, "missing.html", nil))
}

func TestLoadTemplatesFSRequiresPages(t *testing.T) {
	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}{{end}}`)},
	}
	_, err := LoadTemplatesFS(fsys)
	require.Error(t, err)
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{name: "empty", input: "   "},
		{name: "bold", input: "This is **bold** text", contains: []string{"<strong>bold</strong>"}},
		{name: "link", input: "[Help](https://shop.example.com/help)", contains: []string{`href="https://shop.example.com/help"`}},
		{name: "script stripped", input: "<script>alert('xss')</script>", notContains: []string{"<script>"}},
		{name: "javascript link stripped", input: "[x](javascript:alert(1))", notContains: []string{"javascript:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(Markdown(tt.input))
			if len(tt.contains) == 0 && len(tt.notContains) == 0 {
				require.Empty(t, strings.TrimSpace(out))
			}
			for _, want := range tt.contains {
				require.Contains(t, out, want)
			}
			for _, unwanted := range tt.notContains {
				require.NotContains(t, out, unwanted)
			}
		})
	}
}
