package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/service"
)

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	todos, err := s.todos.ListTodos(r.Context(), identity.UserID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) getTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "todo_id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid todo ID provided")
		return
	}
	identity := auth.IdentityFrom(r.Context())
	todo, err := s.todos.GetTodo(r.Context(), identity.UserID, id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.TodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	identity := auth.IdentityFrom(r.Context())
	todo, err := s.todos.CreateTodo(r.Context(), identity.UserID, req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "todo_id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid todo ID provided")
		return
	}
	var req service.TodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	identity := auth.IdentityFrom(r.Context())
	if err := s.todos.UpdateTodo(r.Context(), identity.UserID, id, req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "todo_id")
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid todo ID provided")
		return
	}
	identity := auth.IdentityFrom(r.Context())
	if err := s.todos.DeleteTodo(r.Context(), identity.UserID, id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Pages

func (s *Server) homePageHandler(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	todos, err := s.todos.ListTodos(r.Context(), identity.UserID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Error listing todos")
		s.renderer.Render(w, r, http.StatusOK, pageHome, PageData{User: identity, Msg: "Could not load todos"})
		return
	}
	s.renderer.Render(w, r, http.StatusOK, pageHome, PageData{User: identity, Todos: todos})
}

func (s *Server) addTodoPageHandler(w http.ResponseWriter, r *http.Request) {
	s.renderer.Render(w, r, http.StatusOK, pageAddTodo, PageData{User: auth.IdentityFrom(r.Context())})
}

func (s *Server) addTodoHandler(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	req, msg := todoFromForm(r)
	if msg == "" {
		_, err := s.todos.CreateTodo(r.Context(), identity.UserID, req)
		if err == nil {
			http.Redirect(w, r, "/home", http.StatusFound)
			return
		}
		msg = formErrorMessage(r, err)
	}
	s.renderer.Render(w, r, http.StatusOK, pageAddTodo, PageData{User: identity, Msg: msg})
}

func (s *Server) editTodoPageHandler(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	todo, ok := s.ownedTodo(r, identity)
	if !ok {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}
	s.renderer.Render(w, r, http.StatusOK, pageEditTodo, PageData{User: identity, Todo: todo})
}

// editTodoHandler keeps the completed flag; the page only edits text and
// priority.
func (s *Server) editTodoHandler(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	todo, ok := s.ownedTodo(r, identity)
	if !ok {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}

	req, msg := todoFromForm(r)
	if msg == "" {
		req.Completed = todo.Completed
		err := s.todos.UpdateTodo(r.Context(), identity.UserID, todo.ID, req)
		if err == nil || errors.Is(err, service.ErrTodoNotFound) {
			http.Redirect(w, r, "/home", http.StatusFound)
			return
		}
		msg = formErrorMessage(r, err)
	}
	s.renderer.Render(w, r, http.StatusOK, pageEditTodo, PageData{User: identity, Todo: todo, Msg: msg})
}

func (s *Server) deleteTodoPageHandler(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(r, "todo_id"); ok {
		identity := auth.IdentityFrom(r.Context())
		err := s.todos.DeleteTodo(r.Context(), identity.UserID, id)
		if err != nil && !errors.Is(err, service.ErrTodoNotFound) {
			hlog.FromRequest(r).Error().Err(err).Uint("todo_id", id).Msg("Error deleting todo")
		}
	}
	http.Redirect(w, r, "/home", http.StatusFound)
}

func (s *Server) completeTodoPageHandler(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(r, "todo_id"); ok {
		identity := auth.IdentityFrom(r.Context())
		err := s.todos.ToggleTodo(r.Context(), identity.UserID, id)
		if err != nil && !errors.Is(err, service.ErrTodoNotFound) {
			hlog.FromRequest(r).Error().Err(err).Uint("todo_id", id).Msg("Error completing todo")
		}
	}
	http.Redirect(w, r, "/home", http.StatusFound)
}

func (s *Server) ownedTodo(r *http.Request, identity *auth.Identity) (*service.TodoResponse, bool) {
	id, ok := pathID(r, "todo_id")
	if !ok {
		return nil, false
	}
	todo, err := s.todos.GetTodo(r.Context(), identity.UserID, id)
	if err != nil {
		if !errors.Is(err, service.ErrTodoNotFound) {
			hlog.FromRequest(r).Error().Err(err).Uint("todo_id", id).Msg("Error loading todo")
		}
		return nil, false
	}
	return todo, true
}

// todoFromForm reads task, description and priority. A non-empty message
// means the form could not be used.
func todoFromForm(r *http.Request) (service.TodoRequest, string) {
	if err := r.ParseForm(); err != nil {
		return service.TodoRequest{}, "Invalid form"
	}
	priority, err := strconv.Atoi(r.PostForm.Get("priority"))
	if err != nil {
		return service.TodoRequest{}, "Priority must be a number between 1 and 5"
	}
	return service.TodoRequest{
		Task:        r.PostForm.Get("task"),
		Description: r.PostForm.Get("description"),
		Priority:    priority,
	}, ""
}

func formErrorMessage(r *http.Request, err error) string {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		if _, ok := verr.Fields["priority"]; ok {
			return "Priority must be a number between 1 and 5"
		}
		return "Task must have at least 3 characters"
	}
	hlog.FromRequest(r).Error().Err(err).Msg("Error saving todo")
	return "Unknown Error"
}
