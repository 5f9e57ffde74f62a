package inkpot

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// notFoundOr renders the 404 page for ErrNotFound and passes any other error
// on to the HTTP error handler.
func (a *App) notFoundOr(c echo.Context, err error) error {
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	return err
}

// renderForm re-displays the post form. Forms carrying errors answer 422 so
// clients can tell a rejected submission from a fresh form.
func (a *App) renderForm(c echo.Context, form PostForm) error {
	code := http.StatusOK
	if len(form.Errors) > 0 {
		code = http.StatusUnprocessableEntity
	}
	return RenderStatus(c, code, a.Views.PostForm(form, CsrfToken(c)))
}
