package rooms

import (
	"StudyBud/controllers"
	"StudyBud/middleware"
	"StudyBud/pkg/forum"

	"github.com/gin-gonic/gin"
)

// Register registers room and message routes. Everything except viewing a
// room requires login.
func Register(g *gin.RouterGroup, store *forum.Store) {
	g.GET("/room/:id", controllers.Room(store))
	g.POST("/room/:id", controllers.Room(store))

	protected := g.Group("/")
	protected.Use(middleware.RequireLogin())
	protected.GET("/create-room", controllers.CreateRoom(store))
	protected.POST("/create-room", controllers.CreateRoom(store))
	protected.GET("/update-room/:id", controllers.UpdateRoom(store))
	protected.POST("/update-room/:id", controllers.UpdateRoom(store))
	protected.GET("/delete-room/:id", controllers.DeleteRoom(store))
	protected.POST("/delete-room/:id", controllers.DeleteRoom(store))
	protected.GET("/delete-message/:id", controllers.DeleteMessage(store))
	protected.POST("/delete-message/:id", controllers.DeleteMessage(store))
}
