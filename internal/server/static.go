package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// registerStaticRoutes serves the single page application from dir. Unknown non-API GET
// paths fall back to index.html so client side routing works. An empty dir disables it.
func registerStaticRoutes(router *gin.Engine, dir string) error {
	if dir == "" {
		router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, errorResponse{Error: "not_found"})
		})
		return nil
	}

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		return fmt.Errorf("read index.html: %w", err)
	}
	serveIndex := func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	}

	router.GET("/", serveIndex)
	router.GET("/index.html", serveIndex)
	router.Static("/assets", filepath.Join(dir, "assets"))
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, errorResponse{Error: "not_found"})
			return
		}
		serveIndex(c)
	})
	return nil
}
