package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"panelhub/server/internal/repository"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	limit := queryInt(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}

	users, total, err := s.store.ListUsers(r.Context(), role, limit, (page-1)*limit)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"users": viewUsers(users),
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "User not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"user": viewUser(user)})
}

type updateUserRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=panelist researcher admin"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	userID := chi.URLParam(r, "userID")
	if err := s.store.UpdateUser(r.Context(), userID, req.FirstName, req.LastName, req.Role, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "User not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User updated", nil)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	userID := chi.URLParam(r, "userID")
	if userID == claims.UserID {
		writeFail(w, http.StatusBadRequest, "Cannot delete your own account here")
		return
	}
	if err := s.store.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "User not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User deleted", nil)
}

type userStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (s *Server) handleSetUserStatus(w http.ResponseWriter, r *http.Request) {
	var req userStatusRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	userID := chi.URLParam(r, "userID")
	if err := s.store.SetUserActive(r.Context(), userID, *req.IsActive, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "User not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if !*req.IsActive {
		if err := s.store.RevokeAllSessions(r.Context(), userID); err != nil {
			s.serverError(w, r, err)
			return
		}
	}
	writeSuccess(w, http.StatusOK, "User status updated", nil)
}

func queryInt(r *http.Request, key string, fallback int) int {
	if val := r.URL.Query().Get(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
