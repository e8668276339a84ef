package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resai/internal/ai"
	"resai/internal/auth"
	"resai/internal/config"
)

func SetupRouter(cfg *config.Config, rdb *redis.Client, svc *ai.Service) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // e.g. "/api" or any custom path, always starts with '/'

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)

		// Auth
		group.POST("/users/signup", SignupHandler())
		group.POST("/users/login", LoginHandler(cfg, rdb))
		group.POST("/users/logout", auth.AuthMiddleware(cfg, rdb, false), LogoutHandler(rdb))
		group.GET("/users/me", auth.AuthMiddleware(cfg, rdb, false), MeHandler())

		// Resumes
		group.POST("/resumes/create", auth.AuthMiddleware(cfg, rdb, false), CreateResumeHandler())
		group.GET("/resumes", auth.AuthMiddleware(cfg, rdb, false), ListResumesHandler())
		group.GET("/resumes/:id", auth.AuthMiddleware(cfg, rdb, false), GetResumeHandler())
		group.PUT("/resumes/:id", auth.AuthMiddleware(cfg, rdb, false), UpdateResumeHandler())
		group.DELETE("/resumes/:id", auth.AuthMiddleware(cfg, rdb, false), DeleteResumeHandler())

		// AI operations on a stored resume
		group.POST("/resumes/:id/tailor", auth.AuthMiddleware(cfg, rdb, false), TailorResumeHandler(cfg, svc))
		group.POST("/resumes/:id/cover-letter", auth.AuthMiddleware(cfg, rdb, false), CoverLetterHandler(cfg, svc))

		// Standalone AI generation
		group.POST("/ai/generate-summary", auth.AuthMiddleware(cfg, rdb, false), GenerateSummaryHandler(svc))
		group.POST("/ai/generate-experience-bullets", auth.AuthMiddleware(cfg, rdb, false), GenerateExperienceBulletsHandler(svc))
		group.POST("/ai/generate-project-bullets", auth.AuthMiddleware(cfg, rdb, false), GenerateProjectBulletsHandler(svc))

		// Premium access codes
		group.POST("/codes/activate", auth.AuthMiddleware(cfg, rdb, false), ActivateCodeHandler())

		// Admin
		admin := group.Group("/admin", auth.AuthMiddleware(cfg, rdb, true))
		{
			admin.POST("/codes/generate", GenerateCodeHandler())
			admin.POST("/codes/generate-bulk", GenerateBulkCodesHandler())
			admin.GET("/codes", ListCodesHandler())
			admin.GET("/codes/unused", ListUnusedCodesHandler())
			admin.GET("/codes/used", ListUsedCodesHandler())
			admin.DELETE("/codes/:id", DeleteCodeHandler())

			admin.GET("/users", ListUsersHandler())
			admin.GET("/users/:id", GetUserDetailHandler())
			admin.PUT("/users/:id/role", UpdateUserRoleHandler())
			admin.POST("/users/:id/grant-premium", GrantPremiumHandler())
			admin.POST("/users/:id/revoke-premium", RevokePremiumHandler())

			admin.GET("/stats", StatsHandler())
		}
	}
	return r
}
