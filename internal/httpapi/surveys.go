package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"panelhub/server/internal/auth"
	"panelhub/server/internal/model"
	"panelhub/server/internal/repository"
)

type surveyRequest struct {
	Title            string          `json:"title" validate:"required,min=3,max=200"`
	Description      string          `json:"description"`
	Questions        json.RawMessage `json:"questions" validate:"required"`
	TargetCriteria   json.RawMessage `json:"targetCriteria"`
	RewardPoints     int             `json:"rewardPoints" validate:"min=0"`
	EstimatedMinutes int             `json:"estimatedMinutes" validate:"min=0"`
	MaxResponses     *int            `json:"maxResponses" validate:"omitempty,min=1"`
}

func (s *Server) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	var req surveyRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	if req.TargetCriteria == nil {
		req.TargetCriteria = json.RawMessage(`{}`)
	}
	survey := model.Survey{
		ID:               s.newID(),
		CreatedBy:        claims.UserID,
		Title:            req.Title,
		Description:      req.Description,
		Questions:        req.Questions,
		TargetCriteria:   req.TargetCriteria,
		RewardPoints:     req.RewardPoints,
		EstimatedMinutes: req.EstimatedMinutes,
		Status:           model.SurveyStatusDraft,
		MaxResponses:     req.MaxResponses,
		CreatedAt:        s.now(),
	}
	if err := s.store.CreateSurvey(r.Context(), survey); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Survey created", map[string]interface{}{"survey": viewSurvey(survey)})
}

func (s *Server) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())

	var surveys []model.Survey
	var err error
	switch claims.Role {
	case roleAdmin:
		surveys, err = s.store.ListAllSurveys(r.Context())
	case roleResearcher:
		surveys, err = s.store.ListSurveysByCreator(r.Context(), claims.UserID)
	default:
		surveys, err = s.store.ListActiveSurveys(r.Context())
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"surveys": viewSurveys(surveys)})
}

func (s *Server) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	survey, err := s.store.GetSurvey(r.Context(), chi.URLParam(r, "surveyID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Survey not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if !s.canReadSurvey(claims, survey) {
		writeFail(w, http.StatusNotFound, "Survey not found")
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"survey": viewSurvey(survey)})
}

// Panelists only ever see active surveys. Researchers see their own;
// admins see everything.
func (s *Server) canReadSurvey(claims *auth.UserClaims, survey model.Survey) bool {
	switch claims.Role {
	case roleAdmin:
		return true
	case roleResearcher:
		return survey.CreatedBy == claims.UserID || survey.Status == model.SurveyStatusActive
	default:
		return survey.Status == model.SurveyStatusActive
	}
}

func (s *Server) handleUpdateSurvey(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	survey, err := s.store.GetSurvey(r.Context(), chi.URLParam(r, "surveyID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Survey not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if survey.CreatedBy != claims.UserID && claims.Role != roleAdmin {
		writeFail(w, http.StatusForbidden, "Only the creator can modify this survey")
		return
	}
	var req surveyRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	if req.TargetCriteria == nil {
		req.TargetCriteria = json.RawMessage(`{}`)
	}
	survey.Title = req.Title
	survey.Description = req.Description
	survey.Questions = req.Questions
	survey.TargetCriteria = req.TargetCriteria
	survey.RewardPoints = req.RewardPoints
	survey.EstimatedMinutes = req.EstimatedMinutes
	survey.MaxResponses = req.MaxResponses
	if err := s.store.UpdateSurvey(r.Context(), survey, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Survey updated", nil)
}

type surveyStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft active paused completed"`
}

// Status changes are deliberately permissive: any of the four states
// can be set at any time by the creator or an admin.
func (s *Server) handleSetSurveyStatus(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	survey, err := s.store.GetSurvey(r.Context(), chi.URLParam(r, "surveyID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Survey not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if survey.CreatedBy != claims.UserID && claims.Role != roleAdmin {
		writeFail(w, http.StatusForbidden, "Only the creator can modify this survey")
		return
	}
	var req surveyStatusRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	if err := s.store.SetSurveyStatus(r.Context(), survey.ID, req.Status, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Survey status updated", nil)
}

func (s *Server) handleDeleteSurvey(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	survey, err := s.store.GetSurvey(r.Context(), chi.URLParam(r, "surveyID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Survey not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if survey.CreatedBy != claims.UserID && claims.Role != roleAdmin {
		writeFail(w, http.StatusForbidden, "Only the creator can delete this survey")
		return
	}
	if err := s.store.DeleteSurvey(r.Context(), survey.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Survey deleted", nil)
}
