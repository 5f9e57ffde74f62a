package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/inkpot"
)

func testConfig() inkpot.SiteConfig {
	return inkpot.SiteConfig{
		Name:   "Test Blog",
		URL:    "https://example.com",
		Author: "Jane",
	}
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestNewSetsEveryView(t *testing.T) {
	v, err := New(testConfig())
	require.NoError(t, err)
	assert.NotNil(t, v.Home)
	assert.NotNil(t, v.Post)
	assert.NotNil(t, v.PostForm)
	assert.NotNil(t, v.About)
	assert.NotNil(t, v.Contact)
	assert.NotNil(t, v.NotFound)
	assert.NotNil(t, v.ServerError)
}

func TestHomeListsPostsAndFlashes(t *testing.T) {
	v, err := New(testConfig())
	require.NoError(t, err)

	out := render(t, v.Home([]inkpot.BlogPost{
		{ID: 1, Title: "First", Subtitle: "One", Author: "A", Date: "2024-01-02"},
		{ID: 2, Title: "Second", Subtitle: "Two", Author: "B", Date: "2024-01-03"},
	}, []string{"Post 'Old' is deleted successfully!"}))

	assert.Contains(t, out, "<title>Test Blog</title>")
	assert.Contains(t, out, `href="/post/1"`)
	assert.Contains(t, out, `href="/delete/2"`)
	assert.Contains(t, out, "Second")
	assert.Contains(t, out, "Post &#39;Old&#39; is deleted successfully!")
	assert.Less(t, bytes.Index([]byte(out), []byte("First")), bytes.Index([]byte(out), []byte("Second")))
}

func TestHomeEmpty(t *testing.T) {
	v, err := New(testConfig())
	require.NoError(t, err)
	assert.Contains(t, render(t, v.Home(nil, nil)), "No posts yet.")
}

func TestPostSanitizesBody(t *testing.T) {
	v, err := New(testConfig())
	require.NoError(t, err)

	out := render(t, v.Post(inkpot.BlogPost{
		ID:       3,
		Title:    "Hello",
		Subtitle: "World",
		Author:   "A",
		Date:     "2024-05-01",
		ImgURL:   "http://x/y.png",
		Body:     `<p>hi <strong>there</strong></p><script>alert(1)</script>`,
	}))

	assert.Contains(t, out, "<p>hi <strong>there</strong></p>")
	assert.NotContains(t, out, "alert(1)")
	assert.Contains(t, out, `"@type":"BlogPosting"`)
	assert.Contains(t, out, `href="/edit-post/3"`)
}

func TestPostFormShowsErrorsAndValues(t *testing.T) {
	v, err := New(testConfig())
	require.NoError(t, err)

	out := render(t, v.PostForm(inkpot.PostForm{
		Action:  "/edit-post/4",
		Editing: true,
		Input:   inkpot.PostInput{Title: "Kept <title>", Body: "<p>body</p>"},
		Errors:  inkpot.FieldErrors{inkpot.FieldSubtitle: "This field is required."},
	}, "tok123"))

	assert.Contains(t, out, `action="/edit-post/4"`)
	assert.Contains(t, out, `name="_csrf" value="tok123"`)
	assert.Contains(t, out, `value="Kept &lt;title&gt;"`)
	assert.Contains(t, out, "&lt;p&gt;body&lt;/p&gt;")
	assert.Contains(t, out, "This field is required.")
	assert.Contains(t, out, "Edit Post")
}

func TestStaticPages(t *testing.T) {
	v, err := New(testConfig())
	require.NoError(t, err)

	assert.Contains(t, render(t, v.About()), "Test Blog is written by Jane.")
	assert.Contains(t, render(t, v.Contact()), "https://example.com")
	assert.Contains(t, render(t, v.NotFound()), "Page not found")
	assert.Contains(t, render(t, v.ServerError()), "Something went wrong")
}
