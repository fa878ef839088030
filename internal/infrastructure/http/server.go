package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/nutrilab/imc-registry/internal/adapter/handler/http"
	"github.com/nutrilab/imc-registry/internal/config"
	"github.com/nutrilab/imc-registry/internal/domain/bmi"
	"github.com/nutrilab/imc-registry/internal/domain/policy"
	"github.com/nutrilab/imc-registry/internal/infrastructure/database"
	"github.com/nutrilab/imc-registry/internal/middleware/auth"
	"github.com/nutrilab/imc-registry/internal/usecase"
	"github.com/nutrilab/imc-registry/pkg/logger"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
	engine *bmi.Engine
	hasher usecase.PasswordHasher
	jwt    *auth.JWTManager
}

// requestValidator adapts go-playground/validator to echo's Validator interface.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	repos *database.Repositories,
	engine *bmi.Engine,
	hasher usecase.PasswordHasher,
	jwtManager *auth.JWTManager,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE},
	}))

	return &Server{
		config: cfg,
		logger: log,
		echo:   e,
		repos:  repos,
		engine: engine,
		hasher: hasher,
		jwt:    jwtManager,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Usecases
	pol := policy.NewEvaluator()
	authService := usecase.NewAuthService(s.repos.User, s.repos.Audit, s.hasher, s.jwt,
		s.config.Auth.MaxLoginAttempts, s.config.Auth.LockoutDuration, s.config.Auth.MinPasswordLength, s.logger)
	userService := usecase.NewUserService(s.repos.User, s.hasher, pol, s.config.Auth.MinPasswordLength, s.logger)
	projectService := usecase.NewProjectService(s.repos.Project, s.repos.User, pol, s.logger)
	volunteerService := usecase.NewVolunteerService(s.repos.Volunteer, s.repos.Project, s.engine, pol, s.logger)
	auditService := usecase.NewAuditService(s.repos.Audit, s.repos.User, s.repos.Project, s.repos.Volunteer, pol, s.logger)
	reportService := usecase.NewReportService(s.repos.Project, s.repos.Volunteer, s.repos.Audit, pol, s.logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, s.logger)
	userHandler := handlers.NewUserHandler(userService, s.logger)
	projectHandler := handlers.NewProjectHandler(projectService, s.logger)
	volunteerHandler := handlers.NewVolunteerHandler(volunteerService, s.logger)
	auditHandler := handlers.NewAuditHandler(auditService, s.logger)
	reportHandler := handlers.NewReportHandler(reportService, s.logger)

	api := s.echo.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)

	// Protected routes
	protected := api.Group("", auth.Middleware(auth.MiddlewareConfig{
		Manager: s.jwt,
		Logger:  s.logger,
	}))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/password", authHandler.ChangePassword)

	users := protected.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.POST("/:id/password", userHandler.ResetPassword)

	projects := protected.Group("/projects")
	projects.POST("", projectHandler.Create)
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.PATCH("/:id", projectHandler.Update)
	projects.POST("/:id/archive", projectHandler.Archive)

	// Volunteer routes share the :id segment with project routes; echo
	// requires the same param name at the same path position.
	volunteers := protected.Group("/projects/:id/volunteers")
	volunteers.POST("", volunteerHandler.Create)
	volunteers.GET("", volunteerHandler.List)
	volunteers.GET("/statistics", volunteerHandler.Statistics)
	volunteers.GET("/:volunteerId", volunteerHandler.Get)
	volunteers.PATCH("/:volunteerId", volunteerHandler.Update)
	volunteers.DELETE("/:volunteerId", volunteerHandler.Delete)

	audit := protected.Group("/audit")
	audit.GET("", auditHandler.List)
	audit.GET("/:id", auditHandler.Get)

	protected.GET("/reports/projects/:id/csv", reportHandler.ProjectCSV)
}
