package httpapi

import (
	"net/http"

	"panelhub/server/internal/model"
)

type systemSettingsView struct {
	SiteName            string `json:"siteName"`
	SupportEmail        string `json:"supportEmail"`
	MaintenanceMode     bool   `json:"maintenanceMode"`
	MinRedemptionPoints int    `json:"minRedemptionPoints"`
}

func (s *Server) handleGetSystemSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSystemSettings(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"settings": systemSettingsView{
		SiteName:            settings.SiteName,
		SupportEmail:        settings.SupportEmail,
		MaintenanceMode:     settings.MaintenanceMode,
		MinRedemptionPoints: settings.MinRedemptionPoints,
	}})
}

type systemSettingsRequest struct {
	SiteName            string `json:"siteName" validate:"required"`
	SupportEmail        string `json:"supportEmail" validate:"required,email"`
	MaintenanceMode     bool   `json:"maintenanceMode"`
	MinRedemptionPoints int    `json:"minRedemptionPoints" validate:"min=0"`
}

func (s *Server) handleUpdateSystemSettings(w http.ResponseWriter, r *http.Request) {
	var req systemSettingsRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	settings := model.SystemSettings{
		SiteName:            req.SiteName,
		SupportEmail:        req.SupportEmail,
		MaintenanceMode:     req.MaintenanceMode,
		MinRedemptionPoints: req.MinRedemptionPoints,
	}
	if err := s.store.UpdateSystemSettings(r.Context(), settings, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Settings updated", nil)
}

type notificationSettingsPayload struct {
	EmailNotifications bool `json:"emailNotifications"`
	SurveyInvites      bool `json:"surveyInvites"`
	MarketingEmails    bool `json:"marketingEmails"`
}

func (s *Server) handleGetUserSettings(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"settings": notificationSettingsPayload{
		EmailNotifications: user.Notifications.EmailNotifications,
		SurveyInvites:      user.Notifications.SurveyInvites,
		MarketingEmails:    user.Notifications.MarketingEmails,
	}})
}

func (s *Server) handleUpdateUserSettings(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	var req notificationSettingsPayload
	if !s.decodeValid(w, r, &req) {
		return
	}
	settings := model.NotificationSettings{
		EmailNotifications: req.EmailNotifications,
		SurveyInvites:      req.SurveyInvites,
		MarketingEmails:    req.MarketingEmails,
	}
	if err := s.store.UpdateNotificationSettings(r.Context(), claims.UserID, settings, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Notification settings updated", nil)
}

type privacySettingsPayload struct {
	ProfileVisibility string `json:"profileVisibility" validate:"omitempty,oneof=private public"`
	ShowActivity      bool   `json:"showActivity"`
	AllowDataSharing  bool   `json:"allowDataSharing"`
}

func (s *Server) handleGetPrivacySettings(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"settings": privacySettingsPayload{
		ProfileVisibility: user.Privacy.ProfileVisibility,
		ShowActivity:      user.Privacy.ShowActivity,
		AllowDataSharing:  user.Privacy.AllowDataSharing,
	}})
}

func (s *Server) handleUpdatePrivacySettings(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	var req privacySettingsPayload
	if !s.decodeValid(w, r, &req) {
		return
	}
	if req.ProfileVisibility == "" {
		req.ProfileVisibility = "private"
	}
	settings := model.PrivacySettings{
		ProfileVisibility: req.ProfileVisibility,
		ShowActivity:      req.ShowActivity,
		AllowDataSharing:  req.AllowDataSharing,
	}
	if err := s.store.UpdatePrivacySettings(r.Context(), claims.UserID, settings, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Privacy settings updated", nil)
}

func (s *Server) handleGetSecuritySettings(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	sessions, err := s.store.ListActiveSessions(r.Context(), claims.UserID, s.now())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"passwordChangedAt": user.PasswordChangedAt,
		"activeSessions":    len(sessions),
		"emailVerified":     user.IsEmailVerified,
	})
}
