package server

import (
	"errors"
	"net/http"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/service"
)

// respondAdmin writes data, or the configured denial when the caller is not
// an admin.
func (s *Server) respondAdmin(w http.ResponseWriter, r *http.Request, data interface{}, err error) {
	if errors.Is(err, service.ErrForbidden) {
		respondWithJSON(w, s.adminDenialStatus, map[string]string{"message": "Not Authorized to access this url"})
		return
	}
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, data)
}

func (s *Server) adminUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.admin.ListUsers(r.Context(), auth.IdentityFrom(r.Context()))
	s.respondAdmin(w, r, users, err)
}

func (s *Server) adminTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.admin.ListTodos(r.Context(), auth.IdentityFrom(r.Context()))
	s.respondAdmin(w, r, todos, err)
}

func (s *Server) adminUserTodosHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "user_id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID provided")
		return
	}
	todos, err := s.admin.ListTodosForUser(r.Context(), auth.IdentityFrom(r.Context()), userID)
	s.respondAdmin(w, r, todos, err)
}

func (s *Server) adminTodoHandler(w http.ResponseWriter, r *http.Request) {
	todoID, ok := pathID(r, "todo_id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid todo ID provided")
		return
	}
	todo, err := s.admin.GetTodo(r.Context(), auth.IdentityFrom(r.Context()), todoID)
	s.respondAdmin(w, r, todo, err)
}
