package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"note-auth-server/config"
	_ "note-auth-server/docs"
	"note-auth-server/internal/handler"
	"note-auth-server/internal/repository"
	"note-auth-server/internal/security"
	"note-auth-server/internal/service"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Note-auth-server
// @version 1.0
// @description Сервис сессий и токенов для заметочного приложения

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(redisClient)

	jwtService := security.NewJWTService(&cfg.JWT)
	tokenService := service.NewTokenService(jwtService, tokenRepo, userRepo, &cfg.OAuth)
	authService := service.NewAuthenticationService(tokenService, userRepo, &cfg.JWT)
	socialService := service.NewSocialService(tokenService, userRepo, &cfg.JWT)
	userService := service.NewUserService(userRepo, tokenRepo, tokenService, time.Duration(cfg.TTL.PublicProfile)*time.Second)

	authHandler := handler.NewAuthenticationHandler(authService, jwtService, cfg)
	socialHandler := handler.NewSocialHandler(socialService, jwtService, cfg)
	userHandler := handler.NewUserHandler(userService)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler, socialHandler, tokenService, cfg)
	setupUserRoutes(router, userHandler, tokenService, cfg)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, sh *handler.SocialHandler, tokenService security.AccessTokenVerifier, cfg *config.AppConfig) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(tokenService, cfg.IsProduction()))
			r.Get("/me", h.GetCurrentUser)
			r.Head("/me", h.GetCurrentUserHead)
			r.Post("/verify-email", h.RequestEmailVerification)
			r.Delete("/social/{provider}", sh.Unlink)
		})
		r.Group(func(r chi.Router) {
			r.Post("/", h.Login)
			r.Post("/refresh", h.RefreshToken)
			r.Delete("/", h.Logout)
			r.Put("/verify-email", h.ConfirmEmail)
			r.Post("/social/{provider}", sh.SocialLogin)
		})
	})

	r.Post("/api/register", h.Register)
}

func setupUserRoutes(r chi.Router, h *handler.UserHandler, tokenService security.AccessTokenVerifier, cfg *config.AppConfig) {
	r.Route("/api/users/{uuid}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			// профиль доступен и анонимно: bypass включен явно для маршрута
			r.Use(security.OptionalJWTMiddleware(tokenService, cfg.IsProduction()))
			r.Get("/profile", h.GetPublicProfile)
		})
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(tokenService, cfg.IsProduction()))
			r.Delete("/", h.DeleteAccount)
		})
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
