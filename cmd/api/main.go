package main

import (
	"fmt"
	"log"
	"net/http"

	"filestore-backend/internal/config"
	"filestore-backend/internal/database"
	"filestore-backend/internal/handlers"
	"filestore-backend/internal/middleware"
	"filestore-backend/internal/objectstore"
	"filestore-backend/internal/repository"
	"filestore-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	objects, err := newObjectStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	fileRepo := repository.NewFileRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	authService := services.NewAuthService(userRepo)
	sessionService := services.NewSessionService(sessionRepo, cfg.JWTSecret, cfg.SessionTTL)
	fileService := services.NewFileService(fileRepo, objects)

	authMiddleware := middleware.NewAuthMiddleware(sessionService, authService)
	authHandler := handlers.NewAuthHandler(authService, sessionService, int(cfg.SessionTTL.Seconds()))
	fileHandler := handlers.NewFileHandler(fileService, cfg.PresignTTL)
	adminHandler := handlers.NewAdminHandler(authService, fileService)

	router := http.NewServeMux()

	router.HandleFunc("POST /api/auth/register", authHandler.RegisterUser)
	router.HandleFunc("POST /api/auth/login", authHandler.LoginUser)
	router.HandleFunc("POST /api/auth/logout", authHandler.LogoutUser)
	router.Handle("GET /api/auth/me", authMiddleware.RequireAuth(http.HandlerFunc(authHandler.GetMe)))

	router.Handle("GET /api/files", authMiddleware.RequireAuth(http.HandlerFunc(fileHandler.ListFiles)))
	router.Handle("POST /api/files/upload", authMiddleware.RequireAuth(http.HandlerFunc(fileHandler.UploadFile)))

	// download only gets WithUser: a missing file id must 404 before any
	// auth check, even for anonymous callers
	router.Handle("GET /api/files/{fileID}/download", authMiddleware.WithUser(http.HandlerFunc(fileHandler.DownloadFile)))

	router.Handle("GET /api/admin/users", authMiddleware.RequireAdmin(http.HandlerFunc(adminHandler.ListAllUsers)))
	router.Handle("GET /api/admin/files", authMiddleware.RequireAdmin(http.HandlerFunc(adminHandler.ListAllFiles)))

	handler := corsMiddleware(router, cfg.CORSOrigin)

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	fmt.Printf("Server starting on http://%s\n", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func newObjectStore(cfg *config.Config) (objectstore.ObjectStore, error) {
	if cfg.UseS3() {
		return objectstore.NewS3Store(cfg.S3)
	}
	log.Printf("S3_ENDPOINT not set, storing blobs under %s", cfg.StorageDir)
	return objectstore.NewLocalStore(cfg.StorageDir)
}

func corsMiddleware(next http.Handler, origin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must be more strict, because of http-only cookies, otherwise won't work
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
