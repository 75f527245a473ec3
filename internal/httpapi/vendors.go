package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"panelhub/server/internal/auth"
	"panelhub/server/internal/crypto"
	"panelhub/server/internal/model"
	"panelhub/server/internal/repository"
)

type vendorRegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Name     string  `json:"name" validate:"required"`
	Company  *string `json:"company"`
	Phone    *string `json:"phone"`
	Website  *string `json:"website"`
}

func (s *Server) handleVendorRegister(w http.ResponseWriter, r *http.Request) {
	var req vendorRegisterRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	hash, err := crypto.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	vendor := model.Vendor{
		ID:           s.newID(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         req.Name,
		Company:      req.Company,
		Phone:        req.Phone,
		Website:      req.Website,
		Status:       model.VendorStatusPending,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateVendor(r.Context(), vendor); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeFail(w, http.StatusConflict, "Email already registered")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if err := s.issueVendorOTP(r.Context(), vendor.ID, vendor.Email); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Registration successful. Check your email for the verification code.", map[string]interface{}{
		"vendor": viewVendor(vendor),
	})
}

func (s *Server) handleVendorVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	vendor, err := s.store.GetVendorByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusBadRequest, "Invalid or expired code")
			return
		}
		s.serverError(w, r, err)
		return
	}
	err = s.store.ConsumeVendorOTP(r.Context(), vendor.ID, crypto.HashOTP(req.OTP), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeFail(w, http.StatusBadRequest, "Invalid or expired code")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Email verified. Your account is now active.", nil)
}

func (s *Server) handleVendorLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if attempts, err := s.cache.LoginAttempts(r.Context(), "vendor:"+email); err == nil && attempts >= int64(s.cfg.LoginAttempts) {
		writeFail(w, http.StatusTooManyRequests, "Too many login attempts. Try again later.")
		return
	}

	vendor, err := s.store.GetVendorByEmail(r.Context(), email)
	if err != nil || !crypto.CheckPassword(req.Password, vendor.PasswordHash) {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.serverError(w, r, err)
			return
		}
		_, _ = s.cache.IncrLoginAttempts(r.Context(), "vendor:"+email, s.cfg.LoginAttemptsWindow)
		writeFail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if vendor.Status == model.VendorStatusPending {
		writeFail(w, http.StatusForbidden, "Email not verified")
		return
	}
	if vendor.Status != model.VendorStatusActive {
		writeFail(w, http.StatusForbidden, "Account deactivated")
		return
	}

	token, err := auth.NewVendorToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.TokenTTL, auth.VendorClaims{
		VendorID: vendor.ID,
		Email:    vendor.Email,
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	_ = s.cache.ClearLoginAttempts(r.Context(), "vendor:"+email)

	writeSuccess(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token":  token,
		"vendor": viewVendor(vendor),
	})
}

func (s *Server) handleVendorProfile(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	vendor, err := s.store.GetVendorByID(r.Context(), claims.VendorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Vendor not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"vendor": viewVendor(vendor)})
}

type vendorProfileRequest struct {
	Name           string   `json:"name" validate:"required"`
	Company        *string  `json:"company"`
	Phone          *string  `json:"phone"`
	Website        *string  `json:"website"`
	Description    *string  `json:"description"`
	Services       []string `json:"services"`
	Industries     []string `json:"industries"`
	FoundedYear    *int     `json:"foundedYear" validate:"omitempty,min=1800,max=2100"`
	EmployeeCount  *int     `json:"employeeCount" validate:"omitempty,min=1"`
	Certifications []string `json:"certifications"`
}

func (s *Server) handleVendorUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	var req vendorProfileRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	vendor := model.Vendor{
		ID:             claims.VendorID,
		Name:           req.Name,
		Company:        req.Company,
		Phone:          req.Phone,
		Website:        req.Website,
		Description:    req.Description,
		Services:       req.Services,
		Industries:     req.Industries,
		FoundedYear:    req.FoundedYear,
		EmployeeCount:  req.EmployeeCount,
		Certifications: req.Certifications,
	}
	if err := s.store.UpdateVendorProfile(r.Context(), vendor, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Vendor not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Profile updated", nil)
}

func (s *Server) handleVendorProfileCompletion(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	vendor, err := s.store.GetVendorByID(r.Context(), claims.VendorID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, vendorCompletion(vendor))
}

func vendorCompletion(v model.Vendor) completionResult {
	strSet := func(p *string) bool { return p != nil && *p != "" }
	fields := []bool{
		v.Name != "",
		strSet(v.Company),
		strSet(v.Phone),
		strSet(v.Website),
		strSet(v.Description),
		len(v.Services) > 0,
		len(v.Industries) > 0,
		v.FoundedYear != nil,
		v.EmployeeCount != nil,
		len(v.Certifications) > 0,
	}
	filled := 0
	for _, ok := range fields {
		if ok {
			filled++
		}
	}
	percentage := filled * 100 / len(fields)
	strength := "strong"
	switch {
	case percentage < 50:
		strength = "weak"
	case percentage < 80:
		strength = "medium"
	}
	return completionResult{
		Percentage: percentage,
		Strength:   strength,
		Sections: []completionSection{
			{Name: "profile", Filled: filled, Total: len(fields), Percentage: percentage},
		},
	}
}

func (s *Server) handleVendorAnalytics(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	analytics, err := s.store.GetVendorAnalytics(r.Context(), claims.VendorID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"projectsPosted":   analytics.ProjectsPosted,
		"projectsAssigned": analytics.ProjectsAssigned,
		"bidsPlaced":       analytics.BidsPlaced,
		"bidsReceived":     analytics.BidsReceived,
		"messagesSent":     analytics.MessagesSent,
		"messagesReceived": analytics.MessagesReceived,
	})
}

func (s *Server) handleVendorCommunityFeed(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	projects, err := s.store.ListOpenProjects(r.Context(), claims.VendorID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if len(projects) > 10 {
		projects = projects[:10]
	}
	vendors, err := s.store.ListRecentVendors(r.Context(), 10)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	cards := make([]vendorCard, 0, len(vendors))
	for _, v := range vendors {
		cards = append(cards, viewVendorCard(v))
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"recentProjects": viewProjects(projects),
		"newVendors":     cards,
	})
}

func (s *Server) handleGetVendorCard(w http.ResponseWriter, r *http.Request) {
	vendor, err := s.store.GetVendorByID(r.Context(), chi.URLParam(r, "vendorID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Vendor not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"vendor": viewVendorCard(vendor)})
}

func (s *Server) issueVendorOTP(ctx context.Context, vendorID, email string) error {
	code, err := crypto.NewOTP(s.cfg.AuthTestMode)
	if err != nil {
		return err
	}
	now := s.now()
	if err := s.store.SetVendorOTP(ctx, vendorID, crypto.HashOTP(code), now.Add(s.cfg.OTPTTL), now); err != nil {
		return err
	}
	s.log.Debug("otp issued",
		zap.String("email", email),
		zap.String("purpose", "vendor_verify_email"),
		zap.String("code", code),
	)
	return nil
}
