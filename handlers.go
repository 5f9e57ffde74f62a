package inkpot

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Store.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	flashes, err := popFlashes(c)
	if err != nil {
		a.Log.Warn("flash: read session", "error", err)
	}
	return Render(c, a.Views.Home(posts, flashes))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.postFromParam(c)
	if err != nil {
		return a.notFoundOr(c, err)
	}
	return Render(c, a.Views.Post(post))
}

func (a *App) handleNewPostForm(c echo.Context) error {
	return a.renderForm(c, PostForm{Action: "/new_post"})
}

func (a *App) handleCreatePost(c echo.Context) error {
	form := PostForm{Action: "/new_post"}
	in, errs := a.validator.Validate(formValues(c))
	form.Input = in
	if errs != nil {
		form.Errors = errs
		return a.renderForm(c, form)
	}

	post, err := a.Store.InsertPost(c.Request().Context(), in)
	if err != nil {
		var ce *ConstraintError
		if errors.As(err, &ce) {
			form.Errors = ce.FieldErrors()
			return a.renderForm(c, form)
		}
		return err
	}
	a.Log.Info("post created", "id", post.ID, "title", post.Title)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleEditPostForm(c echo.Context) error {
	post, err := a.postFromParam(c)
	if err != nil {
		return a.notFoundOr(c, err)
	}
	return a.renderForm(c, PostForm{
		Action:  editPath(post.ID),
		Editing: true,
		Input:   post.Input(),
	})
}

func (a *App) handleUpdatePost(c echo.Context) error {
	post, err := a.postFromParam(c)
	if err != nil {
		return a.notFoundOr(c, err)
	}

	form := PostForm{Action: editPath(post.ID), Editing: true}
	in, errs := a.validator.Validate(formValues(c))
	form.Input = in
	if errs != nil {
		form.Errors = errs
		return a.renderForm(c, form)
	}

	if _, err := a.Store.UpdatePost(c.Request().Context(), post.ID, in); err != nil {
		var ce *ConstraintError
		if errors.As(err, &ce) {
			form.Errors = ce.FieldErrors()
			return a.renderForm(c, form)
		}
		return a.notFoundOr(c, err)
	}
	a.Log.Info("post updated", "id", post.ID)
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleDeletePost(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return a.notFoundOr(c, ErrNotFound)
	}
	title, err := a.Store.DeletePost(c.Request().Context(), id)
	if err != nil {
		return a.notFoundOr(c, err)
	}
	a.Log.Info("post deleted", "id", id, "title", title)
	if err := addFlash(c, fmt.Sprintf("Post '%s' is deleted successfully!", title)); err != nil {
		a.Log.Warn("flash: save session", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, a.Views.About())
}

func (a *App) handleContact(c echo.Context) error {
	return Render(c, a.Views.Contact())
}

func (a *App) handleHealth(c echo.Context) error {
	if err := a.Store.Ping(c.Request().Context()); err != nil {
		a.Log.Error("health check failed", "error", err)
		return c.String(http.StatusServiceUnavailable, "unavailable")
	}
	return c.String(http.StatusOK, "ok")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error("server error",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"error", err,
		)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// postFromParam loads the post named by the :id route parameter. A
// malformed id is reported as ErrNotFound.
func (a *App) postFromParam(c echo.Context) (BlogPost, error) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return BlogPost{}, ErrNotFound
	}
	return a.Store.GetPost(c.Request().Context(), id)
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func formValues(c echo.Context) map[string]string {
	fields := make(map[string]string, len(FormFields))
	for _, f := range FormFields {
		fields[f] = c.FormValue(f)
	}
	return fields
}

func editPath(id int64) string {
	return "/edit-post/" + strconv.FormatInt(id, 10)
}
