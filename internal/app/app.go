package app

import (
	"database/sql"
	"fmt"
	"log"

	"lapublica/internal/config"
	"lapublica/internal/handlers"
	"lapublica/internal/middleware"
	"lapublica/internal/pdf"
	"lapublica/internal/repositories"
	"lapublica/internal/routes"
	"lapublica/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.SetSigningKey(cfg.Auth.JWTSecret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	memberRepo := repositories.NewMemberRepository(db)
	connectionRepo := repositories.NewConnectionRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	checklistRepo := repositories.NewChecklistRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	postRepo := repositories.NewPostRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	telegramService := services.NewTelegramService(cfg.Telegram.BotToken) // nil without a token
	notifier := services.NewNotificationService(emailService, telegramService, memberRepo)

	memberService := services.NewMemberService(memberRepo, connectionRepo)
	connectionService := services.NewConnectionService(connectionRepo, memberRepo, notifier)
	leadService := services.NewLeadService(leadRepo, checklistRepo, notifier)
	taskService := services.NewTaskService(taskRepo, leadRepo, notifier)
	feedService := services.NewFeedService(postRepo)
	moderationService := services.NewModerationService(postRepo, reportRepo, notifier)
	uploadService := services.NewUploadService(cfg.Files.RootDir)

	pdfGen := pdf.NewReportGenerator(cfg.Files.RootDir, cfg.Files.FontPath)
	reportService := services.NewReportService(leadRepo, pdfGen)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(memberService)
	memberHandler := handlers.NewMemberHandler(memberService)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	leadHandler := handlers.NewLeadHandler(leadService)
	taskHandler := handlers.NewTaskHandler(taskService)
	feedHandler := handlers.NewFeedHandler(feedService, moderationService)
	moderationHandler := handlers.NewModerationHandler(moderationService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	reportHandler := handlers.NewReportHandler(reportService)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	router.Static("/files", cfg.Files.RootDir)

	routes.SetupRoutes(
		router,
		authHandler,
		memberHandler,
		connectionHandler,
		leadHandler,
		taskHandler,
		feedHandler,
		moderationHandler,
		uploadHandler,
		reportHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server error: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
