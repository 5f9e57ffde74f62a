package inkpot

import (
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
)

func (a *App) handleFeed(c echo.Context) error {
	feed, err := a.buildFeed(c)
	if err != nil {
		return err
	}
	rss, err := feed.ToRss()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func (a *App) handleAtom(c echo.Context) error {
	feed, err := a.buildFeed(c)
	if err != nil {
		return err
	}
	atom, err := feed.ToAtom()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/atom+xml; charset=utf-8", []byte(atom))
}

// buildFeed lists every post, newest first, with sanitized bodies as item
// content.
func (a *App) buildFeed(c echo.Context) (*feeds.Feed, error) {
	posts, err := a.Store.ListPosts(c.Request().Context())
	if err != nil {
		return nil, err
	}
	base := a.Config.URL
	feed := &feeds.Feed{
		Title:       a.Config.Name,
		Link:        &feeds.Link{Href: BuildURL(base)},
		Description: a.Config.Description,
		Created:     time.Now().UTC(),
	}
	if a.Config.Author != "" {
		feed.Author = &feeds.Author{Name: a.Config.Author}
	}
	for i := len(posts) - 1; i >= 0; i-- {
		p := posts[i]
		postURL := BuildURL(base, p.Link())
		item := &feeds.Item{
			Id:          postURL,
			Title:       p.Title,
			Link:        &feeds.Link{Href: postURL},
			Description: p.Subtitle,
			Content:     SanitizeHTML(p.Body),
			Author:      &feeds.Author{Name: p.Author},
		}
		if t, err := time.Parse(DateLayout, p.Date); err == nil {
			item.Created = t
		}
		feed.Items = append(feed.Items, item)
	}
	return feed, nil
}
