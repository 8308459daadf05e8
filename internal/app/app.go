package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskflow/internal/config"
	"taskflow/internal/handlers"
	"taskflow/internal/logger"
	"taskflow/internal/middleware"
	"taskflow/internal/models/user"
	"taskflow/internal/repository/inmemory"
	"taskflow/internal/repository/postgres"
	"taskflow/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	handlers.SetDevelopment(a.config.Logging.Development)

	taskRepo, templateRepo, userRepo, err := a.initRepositories(ctx)
	if err != nil {
		return err
	}

	taskService := service.NewTaskService(taskRepo)
	analyticsService := service.NewAnalyticsService(taskRepo, userRepo)
	pomodoroService := service.NewPomodoroService(taskRepo)
	templateService := service.NewTemplateService(templateRepo, taskRepo)

	taskHandler := handlers.NewTaskHandler(&taskService)
	analyticsHandler := handlers.NewAnalyticsHandler(&analyticsService)
	pomodoroHandler := handlers.NewPomodoroHandler(&pomodoroService)
	templateHandler := handlers.NewTemplateHandler(&templateService)

	a.router = chi.NewRouter()
	a.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logging)
	a.router.Use(middleware.RateLimit(a.config.RateLimit.RPM))

	a.router.Get("/health", taskHandler.HealthCheck)

	a.router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(a.config.Auth.Secret, userRepo))

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.GetTasks)  // GET /tasks
			r.Post("/", taskHandler.PostTask) // POST /tasks

			r.Post("/bulk/status", taskHandler.BulkStatus) // POST /tasks/bulk/status
			r.Post("/bulk/delete", taskHandler.BulkDelete) // POST /tasks/bulk/delete

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTaskByID)       // GET /tasks/{id}
				r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
				r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}
			})
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", analyticsHandler.Dashboard) // GET /analytics/dashboard
			r.Get("/export", analyticsHandler.Export)       // GET /analytics/export
		})

		r.Route("/pomodoro", func(r chi.Router) {
			r.Post("/start/{id}", pomodoroHandler.Start)       // POST /pomodoro/start/{id}
			r.Post("/complete/{id}", pomodoroHandler.Complete) // POST /pomodoro/complete/{id}
			r.Get("/stats", pomodoroHandler.Stats)             // GET /pomodoro/stats
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", templateHandler.GetTemplates)  // GET /templates
			r.Post("/", templateHandler.PostTemplate) // POST /templates

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/use", templateHandler.UseTemplate)   // POST /templates/{id}/use
				r.Delete("/", templateHandler.DeleteTemplate) // DELETE /templates/{id}
			})
		})
	})

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return nil
}

func (a *App) initRepositories(ctx context.Context) (service.TaskRepository, service.TemplateRepository, service.UserRepository, error) {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, postgres.Config{
			ConnString:     a.config.Database.URL,
			MaxConnections: a.config.Database.MaxConnections,
			MinConnections: a.config.Database.MinConnections,
			IdleTimeout:    a.config.Database.IdleTimeout,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("подключение к postgres: %w", err)
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений с базой...")
			storage.Close()
		})

		if err := storage.Migrate(); err != nil {
			return nil, nil, nil, fmt.Errorf("миграции: %w", err)
		}

		logger.Info("Репозиторий: postgres")
		return storage, storage, storage, nil

	case "inmemory":
		taskRepo := inmemory.NewTaskStorage()
		templateRepo := inmemory.NewTemplateStorage()
		userRepo := inmemory.NewUserStorage()

		a.seedDevUser(ctx, userRepo)

		logger.Info("Репозиторий: inmemory")
		return taskRepo, templateRepo, userRepo, nil

	default:
		return nil, nil, nil, fmt.Errorf("неизвестный тип репозитория: %q", a.config.Repository.Type)
	}
}

// seedDevUser создаёт демо-пользователя для inmemory-режима и пишет
// готовый токен в лог, иначе к API не подключиться.
func (a *App) seedDevUser(ctx context.Context, userRepo service.UserRepository) {
	demo := &user.User{
		UUID:      uuid.New(),
		Name:      "Demo",
		Email:     "demo@taskflow.local",
		CreatedAt: time.Now(),
	}
	if err := userRepo.CreateUser(ctx, demo); err != nil {
		logger.Error("Не удалось создать демо-пользователя", err)
		return
	}

	token, err := middleware.IssueToken(a.config.Auth.Secret, demo.UUID, a.config.Auth.TokenTTL)
	if err != nil {
		logger.Error("Не удалось выписать демо-токен", err)
		return
	}

	logger.Info("Демо-пользователь создан",
		zap.String("user_uuid", demo.UUID.String()),
		zap.String("bearer_token", token))
}

func (a *App) Run() error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http-сервер: %w", err)
	case sig := <-stop:
		logger.Info("Получен сигнал завершения", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	// Шатдауны в обратном порядке, логгер закрывается последним
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}

	return nil
}
