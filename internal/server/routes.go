package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/Tomlord1122/todoapp/internal/service"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	useCommonMiddleware(r, s.allowedOrigins)
	r.Use(s.metrics.Middleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/home", http.StatusFound)
	})
	r.Get("/health", s.healthHandler)
	r.Handle("/metrics", s.metrics.Handler())
	r.Handle("/static/*", staticHandler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/token", s.tokenHandler)
		r.Post("/create_user", s.createUserHandler)
		r.Get("/login", s.loginPageHandler)
		r.Post("/login", s.loginHandler)
		r.Get("/logout", s.logoutHandler)
		r.Get("/register", s.registerPageHandler)
		r.Post("/register", s.registerHandler)
	})

	// JSON API: anonymous or rejected sessions get 401.
	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIIdentity)

		r.Get("/todos", s.listTodosHandler)
		r.Get("/todo/{todo_id}", s.getTodoHandler)
		r.Post("/todo/create_todo", s.createTodoHandler)
		r.Put("/todo/update_todo/{todo_id}", s.updateTodoHandler)
		r.Delete("/todo/delete_todo/{todo_id}", s.deleteTodoHandler)

		r.Put("/user/update_password", s.updatePasswordHandler)

		r.Get("/admin/all_users", s.adminUsersHandler)
		r.Get("/admin/all_todos", s.adminTodosHandler)
		r.Get("/admin/all_todos/{user_id}", s.adminUserTodosHandler)
		r.Get("/admin/todo/{todo_id}", s.adminTodoHandler)
	})

	// Pages: anonymous or rejected sessions are sent to the login page.
	r.Group(func(r chi.Router) {
		r.Use(s.requireBrowserIdentity)

		r.Get("/home", s.homePageHandler)
		r.Get("/add-todo", s.addTodoPageHandler)
		r.Post("/add-todo", s.addTodoHandler)
		r.Get("/edit/{todo_id}", s.editTodoPageHandler)
		r.Post("/edit/{todo_id}", s.editTodoHandler)
		r.Get("/delete/{todo_id}", s.deleteTodoPageHandler)
		r.Get("/complete/{todo_id}", s.completeTodoPageHandler)

		r.Get("/user/profile", s.profilePageHandler)
		r.Get("/user/change_password", s.changePasswordPageHandler)
		r.Post("/user/change_password", s.changePasswordHandler)
	})

	return r
}

// useCommonMiddleware installs request ids, access logging, panic recovery
// and CORS on either application's router.
func useCommonMiddleware(r chi.Router, allowedOrigins []string) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(requestLogger)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health(r.Context())
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

// decodeJSON reads a single JSON object into dst. On failure it writes a
// 400 describing the problem and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &syntaxError) {
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	} else if errors.Is(err, io.ErrUnexpectedEOF) {
		respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
	} else if errors.As(err, &unmarshalTypeError) {
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	} else if strings.HasPrefix(err.Error(), "json: unknown field ") {
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Request body contains unknown field %s", fieldName))
	} else if errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
	} else {
		hlog.FromRequest(r).Error().Err(err).Msg("Error decoding request body")
		respondWithError(w, http.StatusInternalServerError, "Error processing request")
	}
	return false
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// respondWithServiceError maps service errors that are not specific to one
// handler. Anything unknown is logged and reported as a 500.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, service.ErrTodoNotFound):
		respondWithError(w, http.StatusNotFound, "Todo not found")
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrBookNotFound):
		respondWithError(w, http.StatusNotFound, "Item not found")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("Unhandled service error")
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling JSON response")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
