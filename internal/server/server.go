package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/config"
	"github.com/Tomlord1122/todoapp/internal/database"
	"github.com/Tomlord1122/todoapp/internal/metrics"
	"github.com/Tomlord1122/todoapp/internal/repository"
	"github.com/Tomlord1122/todoapp/internal/service"
)

// Server is the todo application: JSON API, server-rendered pages and the
// admin views, all behind one router.
type Server struct {
	db       database.Service
	todos    service.TodoService
	users    service.UserService
	admin    service.AdminService
	resolver *auth.Resolver
	metrics  *metrics.Metrics
	renderer *Renderer

	adminDenialStatus int
	allowedOrigins    []string
}

// New wires repositories, services and the session resolver on top of an
// already migrated database.
func New(cfg *config.Config, db database.Service, opts ...auth.CodecOption) (*Server, error) {
	codec, err := auth.NewTokenCodec(cfg.JWTSecret, cfg.JWTTTL, opts...)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}
	renderer, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	gormDB := db.GetDB()
	userRepo := repository.NewGormUserRepository(gormDB)
	todoRepo := repository.NewGormTodoRepository(gormDB)

	return &Server{
		db:                db,
		todos:             service.NewTodoService(todoRepo),
		users:             service.NewUserService(userRepo, auth.NewPasswordHasher(cfg.BcryptCost), service.WithSelfAssignedRole(cfg.AllowSelfRole)),
		admin:             service.NewAdminService(auth.NewGate(userRepo), userRepo, todoRepo),
		resolver:          auth.NewResolver(codec, cfg.CookieSecure),
		metrics:           metrics.New("todoapp"),
		renderer:          renderer,
		adminDenialStatus: cfg.AdminDenialStatus,
		allowedOrigins:    cfg.AllowedOrigins,
	}, nil
}

// HTTPServer returns an http.Server listening on addr with the timeouts
// both applications share.
func (s *Server) HTTPServer(addr string) *http.Server {
	return newHTTPServer(addr, s.RegisterRoutes())
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
