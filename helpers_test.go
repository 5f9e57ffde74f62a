package inkpot

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com/"},
		{"https://example.com/", nil, "https://example.com/"},
		{"https://example.com", []string{"/post/3"}, "https://example.com/post/3"},
		{"https://example.com/blog", []string{"about"}, "https://example.com/blog/about"},
		{"https://example.com", []string{"a", "b"}, "https://example.com/a/b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildURL(tt.base, tt.segs...), "base=%q segs=%v", tt.base, tt.segs)
	}
}

func TestSanitizeHTML(t *testing.T) {
	out := SanitizeHTML(`<p onclick="x()">Hi <a href="javascript:alert(1)">link</a><script>alert(1)</script><em>ok</em></p>`)
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<em>ok</em>")
}

func TestBlogPostingJsonLD(t *testing.T) {
	post := BlogPost{ID: 5, Title: "Hello", Subtitle: "World", Author: "A", Date: "2024-02-03", ImgURL: "http://x/y.png"}
	raw := BlogPostingJsonLD(post, SiteConfig{Name: "Blog", URL: "https://example.com"})

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "BlogPosting", doc["@type"])
	assert.Equal(t, "Hello", doc["headline"])
	assert.Equal(t, "https://example.com/post/5", doc["url"])
	assert.Equal(t, "2024-02-03", doc["datePublished"])
	assert.Equal(t, map[string]any{"@type": "Person", "name": "A"}, doc["author"])
	assert.Contains(t, doc, "publisher")
}

func TestBuildSitemap(t *testing.T) {
	sm := buildSitemap("https://example.com", []BlogPost{
		{ID: 1, Title: "One", Date: "2024-01-01"},
		{ID: 2, Title: "Two", Date: "not-a-date"},
	})
	var buf bytes.Buffer
	_, err := sm.WriteTo(&buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<loc>https://example.com/</loc>")
	assert.Contains(t, out, "<loc>https://example.com/about</loc>")
	assert.Contains(t, out, "<loc>https://example.com/contact</loc>")
	assert.Contains(t, out, "<loc>https://example.com/post/1</loc>")
	assert.Contains(t, out, "<loc>https://example.com/post/2</loc>")
	assert.Contains(t, out, "2024-01-01")
}
