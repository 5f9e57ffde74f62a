// Package views is the default set of inkpot page components. Pages are
// html/template files embedded in the binary and exposed as templ components
// so they satisfy inkpot.ViewFuncs.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/eringen/inkpot"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the data every template receives.
type Page struct {
	Site    inkpot.SiteConfig
	Title   string
	Posts   []inkpot.BlogPost
	Flashes []string
	Post    inkpot.BlogPost
	Form    inkpot.PostForm
	CSRF    string
	JSONLD  template.JS
}

var pageFiles = []string{
	"index.html",
	"post.html",
	"make-post.html",
	"about.html",
	"contact.html",
	"404.html",
	"500.html",
}

var funcs = template.FuncMap{
	"body": func(s string) template.HTML {
		return template.HTML(inkpot.SanitizeHTML(s))
	},
	"ago": func(date string) string {
		t, err := time.Parse(inkpot.DateLayout, date)
		if err != nil {
			return date
		}
		return humanize.Time(t)
	},
}

// Set holds one parsed template per page, each joined with the layout.
type Set struct {
	cfg   inkpot.SiteConfig
	pages map[string]*template.Template
}

// Parse loads the embedded templates.
func Parse(cfg inkpot.SiteConfig) (*Set, error) {
	s := &Set{cfg: cfg, pages: make(map[string]*template.Template, len(pageFiles))}
	for _, name := range pageFiles {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		s.pages[name] = t
	}
	return s, nil
}

// New parses the embedded templates and returns them as inkpot views.
func New(cfg inkpot.SiteConfig) (inkpot.ViewFuncs, error) {
	s, err := Parse(cfg)
	if err != nil {
		return inkpot.ViewFuncs{}, err
	}
	return s.Funcs(), nil
}

func (s *Set) component(name string, p Page) templ.Component {
	p.Site = s.cfg
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return s.pages[name].ExecuteTemplate(w, "layout", p)
	})
}

// Funcs exposes the set as inkpot.ViewFuncs.
func (s *Set) Funcs() inkpot.ViewFuncs {
	return inkpot.ViewFuncs{
		Home: func(posts []inkpot.BlogPost, flashes []string) templ.Component {
			return s.component("index.html", Page{Title: s.cfg.Name, Posts: posts, Flashes: flashes})
		},
		Post: func(post inkpot.BlogPost) templ.Component {
			return s.component("post.html", Page{
				Title:  post.Title,
				Post:   post,
				JSONLD: template.JS(inkpot.BlogPostingJsonLD(post, s.cfg)),
			})
		},
		PostForm: func(form inkpot.PostForm, csrfToken string) templ.Component {
			title := "New Post"
			if form.Editing {
				title = "Edit Post"
			}
			return s.component("make-post.html", Page{Title: title, Form: form, CSRF: csrfToken})
		},
		About: func() templ.Component {
			return s.component("about.html", Page{Title: "About"})
		},
		Contact: func() templ.Component {
			return s.component("contact.html", Page{Title: "Contact"})
		},
		NotFound: func() templ.Component {
			return s.component("404.html", Page{Title: "Not Found"})
		},
		ServerError: func() templ.Component {
			return s.component("500.html", Page{Title: "Server Error"})
		},
	}
}
