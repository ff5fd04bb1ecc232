package swagger

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// Register serves the generated swagger assets under /v1/swagger. The
// directory can be overridden for container images that bake docs elsewhere.
func Register(router *gin.Engine) {
	assetsDir := os.Getenv("SWAGGER_ASSETS_DIR")
	if assetsDir == "" {
		assetsDir = filepath.Join(".", "docs", "swagger")
	}
	router.StaticFS("/v1/swagger", gin.Dir(assetsDir, false))
}
