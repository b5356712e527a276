package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coinpulse/internal/handlers"
	"coinpulse/internal/middleware"
)

// Deps is everything the routes need, built once in main.
type Deps struct {
	Tokens      middleware.TokenVerifier
	Issuer      handlers.TokenIssuer
	Users       middleware.UserFinder
	Accounts    handlers.Accounts
	Preferences handlers.PreferenceService
	Ledger      handlers.Ledger
	Composer    handlers.Composer
	Cookies     handlers.CookieConfig
	CORSOrigins []string
}

// New builds the engine with the standard middleware chain.
func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.CORS(d.CORSOrigins),
		gzip.Gzip(gzip.DefaultCompression),
	)
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	authHandler := handlers.NewAuthHandler(d.Accounts, d.Issuer, d.Preferences, d.Cookies)
	prefsHandler := handlers.NewPreferencesHandler(d.Preferences)
	voteHandler := handlers.NewVoteHandler(d.Ledger)
	dashboardHandler := handlers.NewDashboardHandler(d.Composer)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health)
		api.GET("/catalog", handlers.Catalog)
		api.POST("/signup", authHandler.Signup)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
	}

	authorized := api.Group("")
	authorized.Use(middleware.AuthRequired(d.Tokens, d.Users, d.Cookies.Name))
	{
		authorized.GET("/me", authHandler.Me)
		authorized.GET("/preferences", prefsHandler.Get)
		authorized.PUT("/preferences", prefsHandler.Put)
		authorized.GET("/dashboard", dashboardHandler.Get)
		authorized.POST("/vote", voteHandler.Cast)
		authorized.GET("/votes", voteHandler.List)
		authorized.GET("/votes/tally", voteHandler.Tally)
	}
}
