package gate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultMatcher(t *testing.T) {
	m := DefaultMatcher()

	excluded := []string{
		"/app.css",
		"/static/app.js",
		"/logo.PNG",
		"/img/photo.jpeg",
		"/favicon.ico",
		"/fonts/inter.woff2",
		"/reports/export.csv",
		"/docs/guide.docx",
		"/sheets/q1.xlsx",
		"/bundle.zip",
		"/site.webmanifest",
		"/index.html",
		"/_app",
		"/_app/static/app.css",
		"/_app/chunks/123",
	}
	for _, p := range excluded {
		require.False(t, m.Gated(p), "%s should bypass the gate", p)
	}

	gated := []string{
		"/",
		"",
		"/dashboard",
		"/api/data.json",
		"/reports/2025",
		"/_application",
		"/css",
		"/v1.2/run",
	}
	for _, p := range gated {
		require.True(t, m.Gated(p), "%s should be gated", p)
	}
}

func TestCustomMatcher(t *testing.T) {
	m := NewMatcher([]string{"assets/", "/", ""}, []string{".TXT"})
	require.False(t, m.Gated("/assets/x"))
	require.False(t, m.Gated("/notes/readme.txt"))
	require.True(t, m.Gated("/app.css"))
	require.True(t, m.Gated("/dashboard"))
}
