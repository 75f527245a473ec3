package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"panelhub/server/internal/model"
	"panelhub/server/internal/repository"
)

type ticketRequest struct {
	Category string `json:"category" validate:"required,oneof=General Technical Account Payment"`
	Priority string `json:"priority" validate:"required,oneof=Low Medium High Urgent"`
	Subject  string `json:"subject" validate:"required,min=5,max=100"`
	Message  string `json:"message" validate:"required,min=10,max=1000"`
}

func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	var req ticketRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	ticket := model.SupportTicket{
		ID:        s.newID(),
		UserID:    claims.UserID,
		Category:  req.Category,
		Priority:  req.Priority,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    model.TicketStatusOpen,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateTicket(r.Context(), ticket); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Support ticket created", map[string]interface{}{"ticket": viewTicket(ticket)})
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	tickets, err := s.store.ListTicketsByUser(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"tickets": viewTickets(tickets)})
}

func (s *Server) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	ticket, err := s.store.GetTicket(r.Context(), chi.URLParam(r, "ticketID"), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Support ticket not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"ticket": viewTicket(ticket)})
}

func (s *Server) handlePanelistMonthly(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	monthly, err := s.store.GetPanelistMonthly(r.Context(), claims.UserID, 6, s.now())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"pointsPerMonth":  monthlySeries(monthly.Points, "points"),
		"surveysPerMonth": monthlySeries(monthly.Surveys, "surveys"),
		"rewardsPerMonth": monthlySeries(monthly.Rewards, "rewards"),
	})
}

func monthlySeries(points []repository.MonthlyPoint, key string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(points))
	for _, p := range points {
		out = append(out, map[string]interface{}{"month": p.Month, key: p.Value})
	}
	return out
}

func (s *Server) handlePanelistDemographics(w http.ResponseWriter, r *http.Request) {
	demo, err := s.store.GetPanelistDemographics(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"gender":    demo.Gender,
		"country":   demo.Country,
		"education": demo.Education,
	})
}

func (s *Server) handlePanelistStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetPanelistStats(r.Context(), chi.URLParam(r, "panelistID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Panelist not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"stats": map[string]interface{}{
			"points":            stats.Points,
			"totalPoints":       stats.TotalPoints,
			"surveysCompleted":  stats.SurveysCompleted,
			"surveysInProgress": stats.SurveysInProgress,
			"redemptions":       stats.Redemptions,
		},
	})
}

func (s *Server) handleUsersOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.store.GetUsersOverview(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"overview": map[string]interface{}{
			"usersByRole":      overview.ByRole,
			"activeUsers":      overview.ActiveUsers,
			"verifiedUsers":    overview.VerifiedUsers,
			"totalSurveys":     overview.TotalSurveys,
			"totalResponses":   overview.TotalResponses,
			"totalRedemptions": overview.TotalRedemptions,
		},
	})
}
