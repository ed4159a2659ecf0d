package gate

import (
	"path"
	"strings"
)

// DefaultInternalPrefix is where the console serves its own assets.
const DefaultInternalPrefix = "/_app"

// DefaultStaticExtensions are never gated: markup, stylesheets, scripts,
// images, fonts, icons, data, documents, archives and manifests.
// "json" is not listed, so JSON endpoints stay gated.
var DefaultStaticExtensions = []string{
	"html", "htm",
	"css",
	"js",
	"jpg", "jpeg", "webp", "png", "gif", "svg",
	"ttf", "woff", "woff2",
	"ico",
	"csv",
	"doc", "docx", "xls", "xlsx",
	"zip",
	"webmanifest",
}

// Matcher decides whether a request path is subject to gating.
type Matcher struct {
	prefixes []string
	exts     map[string]struct{}
}

func NewMatcher(internalPrefixes []string, extensions []string) *Matcher {
	m := &Matcher{exts: make(map[string]struct{}, len(extensions))}
	for _, p := range internalPrefixes {
		p = "/" + strings.Trim(p, "/")
		if p == "/" {
			continue
		}
		m.prefixes = append(m.prefixes, p)
	}
	for _, e := range extensions {
		m.exts[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	return m
}

func DefaultMatcher() *Matcher {
	return NewMatcher([]string{DefaultInternalPrefix}, DefaultStaticExtensions)
}

// Gated reports whether urlPath must go through the authorizer.
func (m *Matcher) Gated(urlPath string) bool {
	if urlPath == "" {
		urlPath = "/"
	}
	for _, p := range m.prefixes {
		if urlPath == p || strings.HasPrefix(urlPath, p+"/") {
			return false
		}
	}
	ext := path.Ext(path.Base(urlPath))
	if ext == "" {
		return true
	}
	_, static := m.exts[strings.ToLower(ext[1:])]
	return !static
}
