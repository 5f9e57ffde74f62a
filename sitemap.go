package inkpot

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/snabb/sitemap"
)

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Store.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	sm := buildSitemap(a.Config.URL, posts)
	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

func buildSitemap(base string, posts []BlogPost) *sitemap.Sitemap {
	sm := sitemap.New()
	sm.Add(&sitemap.URL{Loc: BuildURL(base), ChangeFreq: sitemap.Daily})
	for _, page := range []string{"about", "contact"} {
		sm.Add(&sitemap.URL{Loc: BuildURL(base, page), ChangeFreq: sitemap.Monthly})
	}
	for _, p := range posts {
		u := &sitemap.URL{Loc: BuildURL(base, p.Link()), ChangeFreq: sitemap.Weekly}
		if t, err := time.Parse(DateLayout, p.Date); err == nil {
			u.LastMod = &t
		}
		sm.Add(u)
	}
	return sm
}
