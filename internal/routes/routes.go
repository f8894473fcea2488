package routes

import (
	"github.com/gin-gonic/gin"

	"lapublica/internal/authz"
	"lapublica/internal/handlers"
	"lapublica/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	memberHandler *handlers.MemberHandler,
	connectionHandler *handlers.ConnectionHandler,
	leadHandler *handlers.LeadHandler,
	taskHandler *handlers.TaskHandler,
	feedHandler *handlers.FeedHandler,
	moderationHandler *handlers.ModerationHandler,
	uploadHandler *handlers.UploadHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.POST("/register", authHandler.Register)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	api := r.Group("/api")

	// MEMBERS & CONNECTIONS
	members := api.Group("/members")
	{
		members.GET("/", memberHandler.Directory)
		members.GET("/assignees",
			middleware.RequireRoles(authz.RoleGestor, authz.RoleAdmin),
			memberHandler.Assignees)
		members.GET("/me", memberHandler.Me)
		members.PUT("/me", memberHandler.UpdateProfile)
		members.GET("/:id", memberHandler.GetByID)
	}

	connections := api.Group("/connections")
	{
		connections.GET("/", connectionHandler.List)
		connections.POST("/", connectionHandler.Request)
		connections.PATCH("/:id", connectionHandler.Respond)
		connections.DELETE("/:id", connectionHandler.Remove)
	}

	// LEADS (gestor/admin)
	leads := api.Group("/gestio/leads",
		middleware.RequireRoles(authz.RoleGestor, authz.RoleAdmin),
	)
	{
		leads.POST("/", leadHandler.Create)
		leads.GET("/", leadHandler.List)
		leads.GET("/board", leadHandler.Board)
		leads.GET("/gestor/:gestor_id", leadHandler.ByGestor)
		leads.GET("/:id", leadHandler.GetByID)
		leads.PUT("/:id", leadHandler.Update)
		leads.POST("/:id/stage", leadHandler.MoveStage)
		leads.GET("/:id/transitions", leadHandler.Transitions)
		leads.GET("/:id/checklist", leadHandler.Checklist)
		leads.POST("/:id/checks/:check_id/complete", leadHandler.CompleteCheck)
	}

	// TASKS (gestor/admin)
	tasks := api.Group("/admin/tasks",
		middleware.RequireRoles(authz.RoleGestor, authz.RoleAdmin),
	)
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/", taskHandler.GetAll)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PATCH("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/status", taskHandler.ChangeStatus)
		tasks.POST("/:id/tags", taskHandler.AddTag)
		tasks.DELETE("/:id/tags/:tag", taskHandler.RemoveTag)
	}

	// FEED
	feed := api.Group("/gestio/feed-posts")
	{
		feed.GET("/", feedHandler.List)
		feed.POST("/", feedHandler.Create)
		feed.GET("/:id", feedHandler.GetByID)
		feed.PUT("/:id", feedHandler.Update)
		feed.DELETE("/:id", feedHandler.Delete)
		feed.POST("/:id/archive", feedHandler.Archive)
		feed.POST("/:id/vote", feedHandler.Vote)
		feed.POST("/:id/report", moderationHandler.FileReport)

		// moderation commands and queue (moderator/admin)
		feed.PATCH("/:id",
			middleware.RequireRoles(authz.RoleModerator, authz.RoleAdmin),
			feedHandler.Command)
		feed.GET("/moderation",
			middleware.RequireRoles(authz.RoleModerator, authz.RoleAdmin),
			moderationHandler.Queue)
		feed.GET("/moderation/reports",
			middleware.RequireRoles(authz.RoleModerator, authz.RoleAdmin),
			moderationHandler.PendingReports)
		feed.POST("/moderation/reports/:id",
			middleware.RequireRoles(authz.RoleModerator, authz.RoleAdmin),
			moderationHandler.ResolveReport)
	}

	// UPLOADS
	api.POST("/upload", uploadHandler.Upload)

	// REPORTS (gestor/admin)
	reports := api.Group("/gestio/reports",
		middleware.RequireRoles(authz.RoleGestor, authz.RoleAdmin),
	)
	{
		reports.GET("/pipeline/summary", reportHandler.PipelineSummary)
		reports.GET("/pipeline/export", reportHandler.ExportPipelineSummary)
	}

	return r
}
