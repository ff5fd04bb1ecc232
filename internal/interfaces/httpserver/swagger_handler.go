package httpserver

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ServeSwaggerDoc serves the generated swagger JSON from disk.
func ServeSwaggerDoc() gin.HandlerFunc {
	return func(c *gin.Context) {
		docPath := filepath.Join(".", "docs", "swagger", "swagger.json")
		data, err := os.ReadFile(docPath)
		if err != nil {
			log.Error().Err(err).Msg("Failed to read swagger")
			c.JSON(500, gin.H{"error": "Failed to load API documentation"})
			return
		}

		var spec map[string]interface{}
		if err := json.Unmarshal(data, &spec); err != nil {
			log.Error().Err(err).Msg("Failed to parse swagger")
			c.JSON(500, gin.H{"error": "Failed to parse API documentation"})
			return
		}

		c.JSON(200, spec)
	}
}
