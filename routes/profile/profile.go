package profile

import (
	"StudyBud/controllers"
	"StudyBud/middleware"
	"StudyBud/pkg/forum"
	"StudyBud/pkg/services"

	"github.com/gin-gonic/gin"
)

// Register registers profile routes; editing requires login.
func Register(g *gin.RouterGroup, store *forum.Store, storage *services.ObjectStorageService) {
	g.GET("/profile/:id", controllers.Profile(store))
	g.GET("/update-user", middleware.RequireLogin(), controllers.UpdateUser(store, storage))
	g.POST("/update-user", middleware.RequireLogin(), controllers.UpdateUser(store, storage))
}
