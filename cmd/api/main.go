package main

import (
	"context"
	"log"
	"os"
	"time"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Movie Catalog API
// @version         1.0
// @description     Movie catalog backend with accounts, ratings, comments and watchlists.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	resetTokenRepo := repository.NewPasswordResetTokenRepository(db)
	filmRepo := repository.NewFilmRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	watchedRepo := repository.NewWatchedRepository(db)

	tokenCfg := service.TokenConfigFromEnv(middleware.GetJWTSecret())
	tokenService := service.NewTokenService(tokenCfg, userRepo, refreshTokenRepo, txManager)
	googleVerifier := service.NewGoogleTokenVerifier(os.Getenv("GOOGLE_CLIENT_ID"))
	emailSender := service.NewSMTPEmailSender()

	authService := service.NewAuthService(userRepo, tokenService, googleVerifier)
	resetService := service.NewPasswordResetService(userRepo, resetTokenRepo, tokenService, emailSender, txManager)
	userService := service.NewUserService(userRepo, commentRepo, tokenService, txManager)
	filmService := service.NewFilmService(filmRepo, categoryRepo, wsHub)
	categoryService := service.NewCategoryService(categoryRepo)
	commentService := service.NewCommentService(commentRepo, userRepo, filmRepo, txManager, wsHub)
	ratingService := service.NewRatingService(ratingRepo, filmRepo, userRepo, txManager, wsHub)
	interactionService := service.NewInteractionService(favoriteRepo, watchedRepo, userRepo, filmRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, resetService)
	userHandler := handler.NewUserHandler(userService)
	filmHandler := handler.NewFilmHandler(filmService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	commentHandler := handler.NewCommentHandler(commentService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	interactionHandler := handler.NewInteractionHandler(interactionService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.TraceID())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	filmHandler.RegisterRoutes(router.Group(""))
	categoryHandler.RegisterRoutes(router.Group(""))
	commentHandler.RegisterRoutes(router.Group(""))
	ratingHandler.RegisterRoutes(router.Group(""))
	interactionHandler.RegisterRoutes(router.Group(""))

	// Expired refresh tokens pile up otherwise; sweep hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := tokenService.CleanupExpired(context.Background()); err != nil {
				log.Printf("refresh token cleanup failed: %v", err)
			}
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
