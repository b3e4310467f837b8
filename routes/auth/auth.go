package auth

import (
	"StudyBud/controllers"
	"StudyBud/pkg/forum"
	tokenstore "StudyBud/pkg/token"

	"github.com/gin-gonic/gin"
)

// Register registers /login, /logout and /register on a group that already
// runs middleware.LoadUser.
func Register(g *gin.RouterGroup, store *forum.Store, tokens tokenstore.Store) {
	g.GET("/login", controllers.Login(store))
	g.POST("/login", controllers.Login(store))
	g.GET("/logout", controllers.Logout(tokens))
	g.POST("/logout", controllers.Logout(tokens))
	g.GET("/register", controllers.Register(store))
	g.POST("/register", controllers.Register(store))
}
