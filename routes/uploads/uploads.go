package uploads

import (
	"StudyBud/web"

	"github.com/gin-gonic/gin"
)

// Register serves stored uploads below baseURL and the embedded assets
// below /static.
func Register(r *gin.Engine, dir, baseURL string) error {
	if baseURL == "" {
		baseURL = "/uploads"
	}
	r.Static(baseURL, dir)

	assets, err := web.GetFileSystem()
	if err != nil {
		return err
	}
	r.StaticFS("/static", assets)
	return nil
}
