package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/certtrack/certtrack-api/internal/middleware"
	"github.com/certtrack/certtrack-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth      *AuthHandler
	Catalog   *CatalogHandler
	UserState *UserStateHandler
	Suggest   *SuggestionHandler
	Admin     *AdminHandler
	Export    *ExportHandler
	Proof     *ProofHandler
}

// RegisterRoutes attaches all API routes under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, auth *service.AuthService, h Handlers) {
	api := r.Group(prefix)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", middleware.JWT(auth), h.Auth.Logout)
		authGroup.GET("/me", middleware.JWT(auth), h.Auth.Me)
	}

	catalog := api.Group("/certifications", middleware.OptionalJWT(auth))
	{
		catalog.GET("", h.Catalog.List)
		catalog.GET("/filter-options", h.Catalog.FilterOptions)
		catalog.GET("/:id", h.Catalog.Get)
	}

	me := api.Group("/me", middleware.JWT(auth))
	{
		me.GET("/state", h.UserState.State)
		me.PUT("/favorites/:id", h.UserState.AddFavorite)
		me.DELETE("/favorites/:id", h.UserState.RemoveFavorite)
		me.GET("/applications", h.UserState.ListApplications)
		me.POST("/applications", h.UserState.Apply)
		me.GET("/completions", h.UserState.ListCompleted)
		me.POST("/completions", h.UserState.CompleteCatalog)
		me.POST("/completions/external", h.UserState.CompleteExternal)
		me.DELETE("/completions/:id", h.UserState.DeleteCompleted)
		me.POST("/completions/:id/proof", h.Proof.Upload)
		me.DELETE("/completions/:id/proof", h.Proof.Remove)
		me.GET("/completions/:id/proof/signed-url", h.Proof.SignedURL)
	}

	suggestions := api.Group("/suggestions", middleware.JWT(auth))
	{
		suggestions.POST("", h.Suggest.Submit)
		suggestions.GET("", h.Suggest.ListMine)
	}

	exports := api.Group("/exports", middleware.JWT(auth))
	{
		exports.GET("/catalog", h.Export.Catalog)
		exports.GET("/completions", h.Export.Completions)
	}

	// Download authenticates via the signed token, not a JWT.
	api.GET("/proofs/download", h.Proof.Download)

	admin := api.Group("/admin", middleware.JWT(auth), middleware.RequireAdmin())
	{
		admin.POST("/sync", h.Admin.Sync)
		admin.GET("/applications", h.Admin.ListApplications)
		admin.POST("/applications/:id/review", h.Admin.ReviewApplication)
		admin.GET("/suggestions", h.Suggest.ListQueue)
		admin.POST("/suggestions/:id/review", h.Suggest.Review)
		admin.GET("/dashboard", h.Admin.Dashboard)
		admin.GET("/settings", h.Admin.ListSettings)
		admin.PUT("/settings", h.Admin.SetSetting)
	}
}
