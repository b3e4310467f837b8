package api

import (
	"StudyBud/controllers"
	"StudyBud/pkg/forum"

	"github.com/gin-gonic/gin"
)

// Register registers the read-only JSON API on g.
func Register(g *gin.RouterGroup, store *forum.Store) {
	g.GET("", controllers.APIRoutes())
	g.GET("/rooms", controllers.APIRooms(store))
	g.GET("/rooms/:id", controllers.APIRoom(store))
}
