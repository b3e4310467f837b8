package routes

import (
	"time"

	"StudyBud/controllers"
	"StudyBud/middleware"
	"StudyBud/pkg/config"
	"StudyBud/pkg/forum"
	"StudyBud/pkg/services"
	tokenstore "StudyBud/pkg/token"
	"StudyBud/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	apiRoutes "StudyBud/routes/api"
	authRoutes "StudyBud/routes/auth"
	profileRoutes "StudyBud/routes/profile"
	roomRoutes "StudyBud/routes/rooms"
	uploadsRoutes "StudyBud/routes/uploads"
)

// Deps are the services the handlers share.
type Deps struct {
	Store   *forum.Store
	Tokens  tokenstore.Store
	Storage *services.ObjectStorageService
}

// NewRouter builds the engine with templates, session loading and every
// route registered.
func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates(d.Storage.URL)
	if err != nil {
		return nil, err
	}
	r := gin.Default()
	r.SetHTMLTemplate(tmpl)
	if err := RegisterRoutes(r, d); err != nil {
		return nil, err
	}
	return r, nil
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	if err := uploadsRoutes.Register(r, config.UploadDir, config.UploadBaseURL); err != nil {
		return err
	}

	api := r.Group("/api")
	api.Use(cors.New(corsConfig()))
	apiRoutes.Register(api, d.Store)

	site := r.Group("/")
	site.Use(middleware.LoadUser(d.Store, d.Tokens))
	site.GET("/", controllers.Home(d.Store))
	site.GET("/topics", controllers.Topics(d.Store))
	site.GET("/activity", controllers.Activity(d.Store))
	authRoutes.Register(site, d.Store, d.Tokens)
	roomRoutes.Register(site, d.Store)
	profileRoutes.Register(site, d.Store, d.Storage)

	r.NoRoute(middleware.LoadUser(d.Store, d.Tokens), controllers.NotFound())
	return nil
}

func corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(config.CORSOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = config.CORSOrigins
	}
	return cfg
}
