package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"panelhub/server/internal/model"
	"panelhub/server/internal/repository"
)

type startResponseRequest struct {
	SurveyID string `json:"surveyId" validate:"required"`
}

// handleStartResponse is idempotent: starting a survey the caller is
// already working on returns the existing in_progress row. The partial
// unique index closes the race between two concurrent starts; the
// loser re-reads the winner's row.
func (s *Server) handleStartResponse(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	var req startResponseRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	survey, err := s.store.GetSurvey(r.Context(), req.SurveyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Survey not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if survey.Status != model.SurveyStatusActive {
		writeFail(w, http.StatusBadRequest, "Survey is not accepting responses")
		return
	}
	if survey.MaxResponses != nil && survey.ResponseCount >= *survey.MaxResponses {
		writeFail(w, http.StatusBadRequest, "Survey is not accepting responses")
		return
	}

	if existing, err := s.store.GetInProgressResponse(r.Context(), survey.ID, claims.UserID); err == nil {
		writeData(w, http.StatusOK, map[string]interface{}{"response": viewResponse(existing)})
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.serverError(w, r, err)
		return
	}

	response := model.SurveyResponse{
		ID:           s.newID(),
		SurveyID:     survey.ID,
		RespondentID: claims.UserID,
		Status:       model.ResponseStatusInProgress,
		Answers:      json.RawMessage(`{}`),
		StartedAt:    s.now(),
	}
	if err := s.store.CreateResponse(r.Context(), response); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			existing, err := s.store.GetInProgressResponse(r.Context(), survey.ID, claims.UserID)
			if err != nil {
				s.serverError(w, r, err)
				return
			}
			writeData(w, http.StatusOK, map[string]interface{}{"response": viewResponse(existing)})
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Survey started", map[string]interface{}{"response": viewResponse(response)})
}

type saveResponseRequest struct {
	Answers json.RawMessage `json:"answers" validate:"required"`
}

func (s *Server) handleSaveResponse(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	response, err := s.store.GetResponse(r.Context(), chi.URLParam(r, "responseID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Response not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if response.RespondentID != claims.UserID {
		writeFail(w, http.StatusNotFound, "Response not found")
		return
	}
	var req saveResponseRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	if err := s.store.SaveAnswers(r.Context(), response.ID, req.Answers); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeFail(w, http.StatusConflict, "Response is no longer in progress")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Answers saved", nil)
}

type completeResponseRequest struct {
	Qualified *bool           `json:"qualified" validate:"required"`
	Answers   json.RawMessage `json:"answers"`
}

func (s *Server) handleCompleteResponse(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	response, err := s.store.GetResponse(r.Context(), chi.URLParam(r, "responseID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Response not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if response.RespondentID != claims.UserID {
		writeFail(w, http.StatusNotFound, "Response not found")
		return
	}
	var req completeResponseRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	survey, err := s.store.GetSurvey(r.Context(), response.SurveyID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	err = s.store.CompleteResponse(r.Context(), response.ID, *req.Qualified, req.Answers, survey.RewardPoints, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeFail(w, http.StatusConflict, "Response already completed")
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.recordActivity(r.Context(), claims.UserID, "complete_survey", optional(survey.Title))

	message := "Survey completed"
	if !*req.Qualified {
		message = "You did not qualify for this survey"
	}
	writeSuccess(w, http.StatusOK, message, map[string]interface{}{
		"qualified":     *req.Qualified,
		"pointsAwarded": awardedPoints(*req.Qualified, survey.RewardPoints),
	})
}

func awardedPoints(qualified bool, reward int) int {
	if qualified {
		return reward
	}
	return 0
}

func (s *Server) handleMyResponses(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	limit := queryInt(r, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	responses, err := s.store.ListResponsesByUser(r.Context(), claims.UserID, limit)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"responses": viewResponses(responses)})
}

func (s *Server) handleSurveyResponses(w http.ResponseWriter, r *http.Request) {
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
		writeFail(w, http.StatusForbidden, "Only the creator can view responses")
		return
	}
	responses, err := s.store.ListResponsesBySurvey(r.Context(), survey.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"responses": viewResponses(responses)})
}
