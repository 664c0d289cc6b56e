package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loanfillettaz/loadflow-visualization/internal/api/handlers"
	"github.com/loanfillettaz/loadflow-visualization/internal/api/middleware"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	// Sessions hold an assembled network in memory; they do not survive a
	// restart.
	store := handlers.NewSessionStore(sessionTTL())
	sessionHandler := handlers.NewSessionHandler(store, nil)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "sessions": store.Len()})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/sessions", sessionHandler.CreateSession)
		api.POST("/sessions/:id/run", sessionHandler.RunSession)
		api.GET("/sessions/:id/aggregate", sessionHandler.GetAggregate)
		api.GET("/sessions/:id/network", sessionHandler.ExportNetwork)

		api.GET("/archetypes", handlers.ListArchetypes)
	}

	// Serve the map frontend from web/dist when present.
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")
		router.NoRoute(func(c *gin.Context) {
			path := c.Request.URL.Path
			if len(path) >= 4 && path[:4] == "/api" {
				c.JSON(404, gin.H{"error": "Not found"})
			} else {
				c.File(staticDir + "/index.html")
			}
		})
		log.Printf("Serving static files from %s", staticDir)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func sessionTTL() time.Duration {
	if s := os.Getenv("SESSION_TTL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return 2 * time.Hour
}
