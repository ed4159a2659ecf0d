package web

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderLogin(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, PageLogin, LoginData{
		Username:  "<admin>",
		Error:     "Invalid credentials",
		CSRFToken: "csrf-123",
	}, nil))

	out := buf.String()
	require.Contains(t, out, "Invalid credentials")
	require.Contains(t, out, `value="csrf-123"`)
	require.Contains(t, out, "&lt;admin&gt;")
	require.Contains(t, out, "/_app/static/app.js")
	require.NotContains(t, out, " disabled")
}

func TestRenderLoginLoading(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, PageLogin, LoginData{Loading: true}, nil))
	require.Contains(t, buf.String(), " disabled")
	require.NotContains(t, buf.String(), `class="error"`)
}

func TestRenderIndex(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, PageIndex, IndexData{User: &PageUser{Name: "ops", IsAdmin: true}}, nil))
	require.Contains(t, buf.String(), "<strong>ops</strong> (admin)")

	require.Error(t, r.Render(&buf, "missing", nil, nil))
}

func TestStatic(t *testing.T) {
	b, err := fs.ReadFile(Static(), "app.css")
	require.NoError(t, err)
	require.NotEmpty(t, b)
	_, err = fs.Stat(Static(), "app.js")
	require.NoError(t, err)
}
