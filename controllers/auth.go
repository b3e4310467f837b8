package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"StudyBud/middleware"
	"StudyBud/models"
	"StudyBud/pkg/config"
	"StudyBud/pkg/forum"
	tokenstore "StudyBud/pkg/token"

	"github.com/gin-gonic/gin"
)

// Login shows the login form and signs the user in on POST.
func Login(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.CurrentUser(c) != nil {
			c.Redirect(http.StatusFound, "/")
			return
		}
		next := c.DefaultQuery("next", c.PostForm("next"))
		if !isPost(c) {
			render(c, http.StatusOK, "login_register.html", gin.H{"page": "login", "next": next})
			return
		}

		username := c.PostForm("username")
		user, err := store.Authenticate(c.Request.Context(), username, c.PostForm("password"))
		if errors.Is(err, forum.ErrAuthFailed) {
			render(c, http.StatusOK, "login_register.html", gin.H{
				"page":     "login",
				"next":     next,
				"username": username,
				"messages": []string{forum.AuthFailedMessage},
			})
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		if err := startSession(c, user); err != nil {
			fail(c, err)
			return
		}
		c.Redirect(http.StatusFound, safeNext(next))
	}
}

// Logout revokes the current session and returns home.
func Logout(tokens tokenstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := middleware.CurrentClaims(c); ok {
			if err := tokens.Revoke(c.Request.Context(), claims.JTI, time.Until(claims.ExpiresAt)); err != nil {
				log.Printf("[auth] failed to revoke jti %s: %v", claims.JTI, err)
			}
		}
		middleware.ClearSession(c)
		c.Redirect(http.StatusFound, "/")
	}
}

// Register shows the sign-up form and creates and signs in the user on POST.
func Register(store *forum.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isPost(c) {
			render(c, http.StatusOK, "login_register.html", gin.H{"page": "register"})
			return
		}

		var in forum.RegisterInput
		if err := c.ShouldBind(&in); err != nil {
			c.String(http.StatusBadRequest, "invalid form")
			return
		}
		user, err := store.Register(c.Request.Context(), in)
		if ve, ok := forum.AsValidation(err); ok {
			render(c, http.StatusOK, "login_register.html", gin.H{
				"page":     "register",
				"username": in.Username,
				"errors":   ve.ByField(),
				"messages": []string{forum.RegisterFailMessage},
			})
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		if err := startSession(c, user); err != nil {
			fail(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/")
	}
}

func startSession(c *gin.Context, user *models.User) error {
	tok, claims, err := tokenstore.Issue(config.JWTSecret, user.ID, config.SessionTTL)
	if err != nil {
		return err
	}
	middleware.StartSession(c, tok, claims)
	return nil
}
