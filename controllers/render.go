package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"StudyBud/middleware"
	"StudyBud/pkg/forum"

	"github.com/gin-gonic/gin"
)

// render executes a page template with the values every page needs.
func render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["request_user"] = middleware.CurrentUser(c)
	if _, ok := data["q"]; !ok {
		data["q"] = ""
	}
	c.HTML(code, name, data)
}

// fail maps a forum error to a response.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, forum.ErrNotFound):
		notFound(c)
	case errors.Is(err, forum.ErrForbidden):
		c.String(http.StatusForbidden, forum.ForbiddenMessage)
	case errors.Is(err, forum.ErrLoginRequired):
		c.Redirect(http.StatusFound, middleware.LoginURL(c.Request.URL.RequestURI()))
	default:
		log.Printf("[http] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		render(c, http.StatusInternalServerError, "error.html", gin.H{
			"status":  http.StatusInternalServerError,
			"message": "Something went wrong. Please try again later.",
		})
	}
}

func notFound(c *gin.Context) {
	render(c, http.StatusNotFound, "error.html", gin.H{
		"status":  http.StatusNotFound,
		"message": "Page not found",
	})
}

// NotFound renders the 404 page for unmatched routes.
func NotFound() gin.HandlerFunc {
	return notFound
}

// paramID parses the :id path parameter. Malformed ids answer 404.
func paramID(c *gin.Context) (uint, bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		notFound(c)
		return 0, false
	}
	return id, true
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return uint(id), nil
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func isPost(c *gin.Context) bool {
	return c.Request.Method == http.MethodPost
}
