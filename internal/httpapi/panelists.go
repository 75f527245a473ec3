package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"panelhub/server/internal/model"
	"panelhub/server/internal/repository"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	completed, err := s.store.CountResponsesByUser(r.Context(), user.ID, model.ResponseStatusCompleted)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	inProgress, err := s.store.CountResponsesByUser(r.Context(), user.ID, model.ResponseStatusInProgress)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	recent, err := s.store.ListResponsesByUser(r.Context(), user.ID, 5)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	completion := profileCompletion(user)

	writeData(w, http.StatusOK, map[string]interface{}{
		"stats": map[string]interface{}{
			"points":            user.Points,
			"totalPoints":       user.TotalPoints,
			"surveysCompleted":  completed,
			"surveysInProgress": inProgress,
			"profileCompletion": completion.Percentage,
		},
		"recentResponses": viewResponses(recent),
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"profile": viewUser(user)})
}

type updateProfileRequest struct {
	FirstName     string     `json:"firstName" validate:"required"`
	LastName      string     `json:"lastName" validate:"required"`
	Phone         *string    `json:"phone"`
	DateOfBirth   *time.Time `json:"dateOfBirth"`
	Gender        *string    `json:"gender"`
	Country       *string    `json:"country"`
	City          *string    `json:"city"`
	Occupation    *string    `json:"occupation"`
	Education     *string    `json:"education"`
	Employment    *string    `json:"employment"`
	Industry      *string    `json:"industry"`
	IncomeRange   *string    `json:"incomeRange"`
	HouseholdSize *int       `json:"householdSize" validate:"omitempty,min=1,max=30"`
	MaritalStatus *string    `json:"maritalStatus"`
	Language      *string    `json:"language"`
	Interests     []string   `json:"interests"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	var req updateProfileRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	profile := model.UserProfile{
		Phone:         req.Phone,
		DateOfBirth:   req.DateOfBirth,
		Gender:        req.Gender,
		Country:       req.Country,
		City:          req.City,
		Occupation:    req.Occupation,
		Education:     req.Education,
		Employment:    req.Employment,
		Industry:      req.Industry,
		IncomeRange:   req.IncomeRange,
		HouseholdSize: req.HouseholdSize,
		MaritalStatus: req.MaritalStatus,
		Language:      req.Language,
		Interests:     req.Interests,
	}
	if err := s.store.UpdateUserProfile(r.Context(), claims.UserID, req.FirstName, req.LastName, profile, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.recordActivity(r.Context(), claims.UserID, "update_profile", nil)
	writeSuccess(w, http.StatusOK, "Profile updated", nil)
}

func (s *Server) handleProfileCompletion(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, profileCompletion(user))
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	sessions, err := s.store.ListActiveSessions(r.Context(), claims.UserID, s.now())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"devices": viewSessions(sessions)})
}

func (s *Server) handleRevokeDevice(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.store.RevokeSession(r.Context(), sessionID, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Session not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Session revoked", nil)
}

func (s *Server) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	if err := s.store.RevokeAllSessions(r.Context(), claims.UserID); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.recordActivity(r.Context(), claims.UserID, "logout_all", nil)
	writeSuccess(w, http.StatusOK, "All sessions revoked", nil)
}

func (s *Server) handleDataExport(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	responses, err := s.store.ListResponsesByUser(r.Context(), user.ID, 1000)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	redemptions, err := s.store.ListRedemptionsByUser(r.Context(), user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	activity, err := s.store.ListActivity(r.Context(), user.ID, 1000)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"user":        viewUser(user),
		"responses":   viewResponses(responses),
		"redemptions": viewRedemptions(redemptions),
		"activity":    viewActivity(activity),
		"exportedAt":  s.now(),
	})
}

// handleRequestDelete deactivates the account and kills every session.
// The row itself is kept for the audit trail; a hard purge is an
// operator action.
func (s *Server) handleRequestDelete(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	if err := s.store.SetUserActive(r.Context(), claims.UserID, false, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := s.store.RevokeAllSessions(r.Context(), claims.UserID); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.recordActivity(r.Context(), claims.UserID, "request_delete", nil)
	writeSuccess(w, http.StatusOK, "Account deactivated and deletion requested", nil)
}

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	limit := queryInt(r, "limit", 20)
	if limit < 1 || limit > 200 {
		limit = 20
	}
	items, err := s.store.ListActivity(r.Context(), claims.UserID, limit)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"activity": viewActivity(items)})
}

type completionSection struct {
	Name       string `json:"name"`
	Filled     int    `json:"filled"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

type completionResult struct {
	Percentage int                 `json:"percentage"`
	Strength   string              `json:"strength"`
	Sections   []completionSection `json:"sections"`
}

// profileCompletion scores how much of the panelist profile is filled
// in. Strength bands: below 50 weak, below 80 medium, otherwise strong.
func profileCompletion(u model.User) completionResult {
	strSet := func(v *string) bool { return v != nil && *v != "" }

	sections := []struct {
		name   string
		fields []bool
	}{
		{"basic", []bool{u.FirstName != "", u.LastName != "", strSet(u.Profile.Phone)}},
		{"demographics", []bool{
			u.Profile.DateOfBirth != nil,
			strSet(u.Profile.Gender),
			strSet(u.Profile.Country),
			strSet(u.Profile.City),
		}},
		{"work", []bool{
			strSet(u.Profile.Occupation),
			strSet(u.Profile.Education),
			strSet(u.Profile.Employment),
			strSet(u.Profile.Industry),
		}},
		{"household", []bool{
			strSet(u.Profile.IncomeRange),
			u.Profile.HouseholdSize != nil,
			strSet(u.Profile.MaritalStatus),
		}},
		{"preferences", []bool{
			strSet(u.Profile.Language),
			len(u.Profile.Interests) > 0,
		}},
		{"account", []bool{u.IsEmailVerified, u.IsActive}},
	}

	var filled, total int
	out := make([]completionSection, 0, len(sections))
	for _, section := range sections {
		sectionFilled := 0
		for _, ok := range section.fields {
			if ok {
				sectionFilled++
			}
		}
		filled += sectionFilled
		total += len(section.fields)
		pct := 0
		if len(section.fields) > 0 {
			pct = sectionFilled * 100 / len(section.fields)
		}
		out = append(out, completionSection{
			Name:       section.name,
			Filled:     sectionFilled,
			Total:      len(section.fields),
			Percentage: pct,
		})
	}

	percentage := filled * 100 / total
	strength := "strong"
	switch {
	case percentage < 50:
		strength = "weak"
	case percentage < 80:
		strength = "medium"
	}
	return completionResult{Percentage: percentage, Strength: strength, Sections: out}
}
