package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"apparel-catalog/internal/auth"
	"apparel-catalog/internal/cache"
	"apparel-catalog/internal/handlers"
	"apparel-catalog/internal/metrics"
	"apparel-catalog/internal/models"
	"apparel-catalog/internal/repository"
)

type Deps struct {
	Catalog *repository.Catalog
	Users   handlers.Accounts
	Admins  handlers.Accounts
	Tokens  *auth.TokenIssuer
	Images  handlers.ImageOpener
	Cache   *cache.Cache
	Metrics *metrics.Metrics

	MaxUploadBytes int64
	// ProtectWrites requires an admin token on catalog writes.
	ProtectWrites bool
}

func RegisterRoutes(router *gin.Engine, d Deps) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", d.Metrics.Handler())
	}

	writes := []gin.HandlerFunc{}
	if d.ProtectWrites {
		writes = append(writes, auth.RequireRole(d.Tokens, models.Admins.Role))
	}

	itemHandlers := make(map[*models.Kind]*handlers.ItemHandler)
	for _, k := range models.Kinds() {
		h := handlers.NewItemHandler(d.Catalog.Items(k), d.Cache, d.Metrics, d.MaxUploadBytes)
		itemHandlers[k] = h

		g := router.Group("/" + k.Name)
		g.GET("", h.List)
		g.GET("/:id", h.Get)

		w := g.Group("", writes...)
		w.POST("", h.Create)
		w.PUT("/:id", h.Update)
		w.DELETE("/:id", h.Delete)
	}
	for _, k := range models.Kinds() {
		if k.IsDetail() {
			router.GET("/"+k.Parent.Name+"/:id/details", itemHandlers[k].ListByParent)
		}
	}

	router.GET("/uploads/:kind/:filename", handlers.NewUploadHandler(d.Images).Serve)

	a := handlers.NewAuthHandler(d.Users, d.Admins, d.Tokens)
	router.POST("/auth/user-signup", a.UserSignup)
	router.POST("/login/login", a.UserLogin)
	router.POST("/admin-signup", a.AdminSignup)
	router.POST("/admin-login", a.AdminLogin)
}
