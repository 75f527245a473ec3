package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"panelhub/server/internal/auth"
	"panelhub/server/internal/crypto"
	"panelhub/server/internal/model"
	"panelhub/server/internal/repository"
)

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=panelist researcher"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	role := req.Role
	if role == "" {
		role = model.RolePanelist
	}

	hash, err := crypto.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	user := model.User{
		ID:           s.newID(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeFail(w, http.StatusConflict, "Email already registered")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if err := s.issueUserOTP(r.Context(), user.ID, user.Email, model.OTPPurposeVerifyEmail); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.recordActivity(r.Context(), user.ID, "register", nil)

	writeSuccess(w, http.StatusCreated, "Registration successful. Check your email for the verification code.", map[string]interface{}{
		"user": viewUser(user),
	})
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusBadRequest, "Invalid or expired code")
			return
		}
		s.serverError(w, r, err)
		return
	}
	err = s.store.ConsumeUserOTP(r.Context(), user.ID, crypto.HashOTP(req.OTP), model.OTPPurposeVerifyEmail, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeFail(w, http.StatusBadRequest, "Invalid or expired code")
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.recordActivity(r.Context(), user.ID, "verify_email", nil)
	writeSuccess(w, http.StatusOK, "Email verified. You can now log in.", nil)
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Account not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if user.IsEmailVerified {
		writeFail(w, http.StatusBadRequest, "Email already verified")
		return
	}
	ok, err := s.cache.MarkOTPSent(r.Context(), "user", user.Email, s.cfg.OTPTTL/10)
	if err != nil {
		s.log.Warn("otp throttle check failed", zap.Error(err))
	} else if !ok {
		writeFail(w, http.StatusTooManyRequests, "A code was sent recently. Try again later.")
		return
	}
	if err := s.issueUserOTP(r.Context(), user.ID, user.Email, model.OTPPurposeVerifyEmail); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Verification code sent.", nil)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if attempts, err := s.cache.LoginAttempts(r.Context(), email); err == nil && attempts >= int64(s.cfg.LoginAttempts) {
		writeFail(w, http.StatusTooManyRequests, "Too many login attempts. Try again later.")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), email)
	if err != nil || !crypto.CheckPassword(req.Password, user.PasswordHash) {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.serverError(w, r, err)
			return
		}
		_, _ = s.cache.IncrLoginAttempts(r.Context(), email, s.cfg.LoginAttemptsWindow)
		writeFail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsEmailVerified {
		writeFail(w, http.StatusForbidden, "Email not verified")
		return
	}
	if !user.IsActive {
		writeFail(w, http.StatusForbidden, "Account deactivated")
		return
	}

	token, err := auth.NewUserToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.TokenTTL, auth.UserClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	now := s.now()
	session := model.UserSession{
		ID:         s.newID(),
		UserID:     user.ID,
		TokenHash:  crypto.HashToken(token),
		UserAgent:  optional(r.UserAgent()),
		IPAddress:  optional(clientIP(r)),
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.cfg.TokenTTL),
		LastUsedAt: now,
		IsActive:   true,
	}
	if err := s.store.CreateSession(r.Context(), session); err != nil {
		s.serverError(w, r, err)
		return
	}
	_ = s.cache.ClearLoginAttempts(r.Context(), email)
	s.recordActivity(r.Context(), user.ID, "login", nil)

	writeSuccess(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token": token,
		"user":  viewUser(user),
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	// Same answer whether or not the account exists.
	if user, err := s.store.GetUserByEmail(r.Context(), req.Email); err == nil {
		if err := s.issueUserOTP(r.Context(), user.ID, user.Email, model.OTPPurposeResetPassword); err != nil {
			s.serverError(w, r, err)
			return
		}
	}
	writeSuccess(w, http.StatusOK, "If the account exists, a reset code has been sent.", nil)
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusBadRequest, "Invalid or expired code")
			return
		}
		s.serverError(w, r, err)
		return
	}
	err = s.store.ConsumeUserOTP(r.Context(), user.ID, crypto.HashOTP(req.OTP), model.OTPPurposeResetPassword, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeFail(w, http.StatusBadRequest, "Invalid or expired code")
			return
		}
		s.serverError(w, r, err)
		return
	}
	hash, err := crypto.HashPassword(req.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := s.store.UpdatePassword(r.Context(), user.ID, hash, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := s.store.RevokeAllSessions(r.Context(), user.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.recordActivity(r.Context(), user.ID, "reset_password", nil)
	writeSuccess(w, http.StatusOK, "Password reset. Log in with your new password.", nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	OTP             string `json:"otp" validate:"omitempty,len=6"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// handleChangePassword runs in two steps: without an OTP it verifies
// the current password and sends a confirmation code; with an OTP it
// consumes the code and applies the new password.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	var req changePasswordRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !crypto.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		writeFail(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	if req.OTP == "" {
		if err := s.issueUserOTP(r.Context(), user.ID, user.Email, model.OTPPurposeChangePassword); err != nil {
			s.serverError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, "Confirmation code sent. Repeat the request with the code.", nil)
		return
	}

	err = s.store.ConsumeUserOTP(r.Context(), user.ID, crypto.HashOTP(req.OTP), model.OTPPurposeChangePassword, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeFail(w, http.StatusBadRequest, "Invalid or expired code")
			return
		}
		s.serverError(w, r, err)
		return
	}
	hash, err := crypto.HashPassword(req.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := s.store.UpdatePassword(r.Context(), user.ID, hash, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.recordActivity(r.Context(), user.ID, "change_password", nil)
	writeSuccess(w, http.StatusOK, "Password changed.", nil)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Account not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"user": viewUser(user)})
}

func (s *Server) issueUserOTP(ctx context.Context, userID, email, purpose string) error {
	code, err := crypto.NewOTP(s.cfg.AuthTestMode)
	if err != nil {
		return err
	}
	now := s.now()
	if err := s.store.SetUserOTP(ctx, userID, crypto.HashOTP(code), purpose, now.Add(s.cfg.OTPTTL), now); err != nil {
		return err
	}
	// Delivery is a deployment concern; the code only ever reaches the
	// debug log.
	s.log.Debug("otp issued",
		zap.String("email", email),
		zap.String("purpose", purpose),
		zap.String("code", code),
	)
	return nil
}

func (s *Server) recordActivity(ctx context.Context, userID, action string, detail *string) {
	err := s.store.RecordActivity(ctx, model.UserActivity{
		ID:        s.newID(),
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.log.Warn("activity record failed", zap.String("action", action), zap.Error(err))
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return r.RemoteAddr
}
