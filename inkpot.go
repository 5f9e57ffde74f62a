// Package inkpot is a single-author blog content manager built with Go, Echo
// and templ. It lists, shows, creates, edits and deletes posts stored in a
// SQLite table and renders them through user-supplied views.
//
// Users provide their own templ components via the ViewFuncs struct (the
// views package ships a default set), and inkpot handles the handler logic,
// middleware and database operations.
package inkpot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/inkpot/logger"
)

// ViewFuncs holds the templ components the handlers render. Every field is
// required.
type ViewFuncs struct {
	Home        func(posts []BlogPost, flashes []string) templ.Component
	Post        func(post BlogPost) templ.Component
	PostForm    func(form PostForm, csrfToken string) templ.Component
	About       func() templ.Component
	Contact     func() templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

func (v ViewFuncs) validate() error {
	if v.Home == nil || v.Post == nil || v.PostForm == nil || v.About == nil ||
		v.Contact == nil || v.NotFound == nil || v.ServerError == nil {
		return errors.New("inkpot: every ViewFuncs field must be set")
	}
	return nil
}

// App is the central inkpot application. It wires together the store,
// validator, handlers, middleware and views.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Views  ViewFuncs
	Log    logger.Logger

	validator    *FormValidator
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new inkpot App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config:    cfg,
		Echo:      e,
		Views:     views,
		Log:       logger.NewLogger(nil),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store and registers middleware and routes. It does not
// start listening, so the App can be driven through a.Echo.ServeHTTP.
func (a *App) Init(ctx context.Context) error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	if err := a.Views.validate(); err != nil {
		return err
	}

	store, err := NewStore(ctx, a.Config.DatabasePath, a.Log.With("component", "store"))
	if err != nil {
		return fmt.Errorf("inkpot: init store: %w", err)
	}
	a.Store = store
	a.validator = NewFormValidator(a.Config.StrictImageURL)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the App and serves HTTP until ctx is cancelled, then
// shuts the server down gracefully and closes the store.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("listening", "addr", a.Config.Addr, "database", a.Config.DatabasePath)
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting down", "timeout", a.Config.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("inkpot: shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/healthz", a.handleHealth)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/atom.xml", a.handleAtom)
	e.GET("/sitemap.xml", a.handleSitemap)

	e.GET("/", a.handleHome)
	e.GET("/post/:id", a.handlePost)
	e.GET("/new_post", a.handleNewPostForm)
	e.POST("/new_post", a.handleCreatePost)
	e.GET("/edit-post/:id", a.handleEditPostForm)
	e.POST("/edit-post/:id", a.handleUpdatePost)
	e.GET("/delete/:id", a.handleDeletePost)

	e.GET("/about", a.handleAbout)
	e.GET("/contact", a.handleContact)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		err := a.Store.Close()
		a.Store = nil
		return err
	}
	return nil
}
