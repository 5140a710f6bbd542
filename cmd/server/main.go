package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/api"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/config"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/core"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/db"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/middleware"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/pkg/imagehost"
)

func main() {
	// --- 1. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// --- 2. Initialize Logger (Zap) ---
	var zapLogger *zap.Logger
	if strings.ToLower(appConfig.GinMode) == "release" {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Application configuration loaded, logger initialized.")

	// --- 3. Initialize Firebase Admin SDK (Firestore and Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	clients, err := db.NewClients(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized successfully.")

	// --- 4. Initialize Repositories ---
	postRepo := db.NewFirestorePostRepository(clients.Firestore)
	userRepo := db.NewFirestoreUserRepository(clients.Firestore)
	auditRepo := db.NewFirestoreAuditRepository(clients.Firestore)

	// --- 5. Initialize Image Host ---
	uploader, err := newUploader(appConfig)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize image host", zap.Error(err))
	}
	zapLogger.Info("Image host initialized.", zap.String("host", appConfig.ImageHost))

	// --- 6. Initialize Core Services ---
	auditService := core.NewAuditService(auditRepo, zapLogger)
	userService := core.NewUserService(userRepo)
	syncService := core.NewSyncService(postRepo, zapLogger)
	postService := core.NewPostService(postRepo, syncService, uploader, auditService, zapLogger)

	// --- 7. Start the Post Mirror ---
	// The subscription outlives individual requests; it is torn down only on
	// shutdown.
	syncCtx, cancelSync := context.WithCancel(context.Background())
	defer cancelSync()
	syncService.Start(syncCtx)
	defer syncService.Stop()
	zapLogger.Info("Post mirror subscription started.")

	// --- 8. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// --- 9. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig.ClientURL))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. Browser clients will be blocked by same-origin policy.")
	}

	// --- 10. Setup API Routes ---
	api.SetupRoutes(
		router,
		zapLogger,
		clients.Auth,
		clients.Auth,
		userService,
		postService,
		syncService,
		auditService,
	)

	// --- 11. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 12. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	// Stop the mirror after the listener so in-flight reads keep working
	// through the drain window.
	syncService.Stop()
	zapLogger.Info("Server exiting gracefully.")
}

// newUploader builds the image host adapter selected by IMAGE_HOST.
func newUploader(cfg *config.Config) (imagehost.Uploader, error) {
	switch cfg.ImageHost {
	case config.ImageHostS3:
		uploader, err := imagehost.NewS3(context.Background(), imagehost.S3Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
			PublicBaseURL:   cfg.S3PublicURL,
			MaxBytes:        cfg.ImageMaxBytes,
		})
		if err != nil {
			return nil, err
		}
		return uploader, nil
	default:
		uploader, err := imagehost.NewImgBB(imagehost.ImgBBConfig{
			APIKey:   cfg.ImgBBAPIKey,
			Endpoint: cfg.ImgBBUploadURL,
			MaxBytes: cfg.ImageMaxBytes,
		})
		if err != nil {
			return nil, err
		}
		return uploader, nil
	}
}
