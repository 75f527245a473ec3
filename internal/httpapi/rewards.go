package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"panelhub/server/internal/model"
	"panelhub/server/internal/repository"
)

func (s *Server) handleListRewards(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	rewards, err := s.store.ListRewards(r.Context(), claims.Role != roleAdmin)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"rewards": viewRewards(rewards)})
}

type rewardRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description"`
	PointsCost  int    `json:"pointsCost" validate:"required,min=1"`
	Category    string `json:"category"`
	IsActive    *bool  `json:"isActive"`
}

func (s *Server) handleCreateReward(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	reward := model.Reward{
		ID:          s.newID(),
		Name:        req.Name,
		Description: req.Description,
		PointsCost:  req.PointsCost,
		Category:    req.Category,
		IsActive:    req.IsActive == nil || *req.IsActive,
		CreatedAt:   s.now(),
	}
	if reward.Category == "" {
		reward.Category = "general"
	}
	if err := s.store.CreateReward(r.Context(), reward); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Reward created", map[string]interface{}{"reward": viewReward(reward)})
}

func (s *Server) handleUpdateReward(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	reward, err := s.store.GetReward(r.Context(), chi.URLParam(r, "rewardID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Reward not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	reward.Name = req.Name
	reward.Description = req.Description
	reward.PointsCost = req.PointsCost
	if req.Category != "" {
		reward.Category = req.Category
	}
	if req.IsActive != nil {
		reward.IsActive = *req.IsActive
	}
	if err := s.store.UpdateReward(r.Context(), reward, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Reward updated", nil)
}

func (s *Server) handleDeleteReward(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteReward(r.Context(), chi.URLParam(r, "rewardID")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Reward not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Reward deleted", nil)
}

// handleRedeemReward debits the caller's balance atomically with the
// redemption insert; a stale balance read can never overdraw.
func (s *Server) handleRedeemReward(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	reward, err := s.store.GetReward(r.Context(), chi.URLParam(r, "rewardID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Reward not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if !reward.IsActive {
		writeFail(w, http.StatusBadRequest, "Reward is not available")
		return
	}
	settings, err := s.store.GetSystemSettings(r.Context())
	if err == nil && reward.PointsCost < settings.MinRedemptionPoints {
		writeFail(w, http.StatusBadRequest, "Reward is below the minimum redemption amount")
		return
	}

	redemption := model.RewardRedemption{
		ID:          s.newID(),
		RewardID:    reward.ID,
		UserID:      claims.UserID,
		PointsSpent: reward.PointsCost,
		Status:      model.RedemptionStatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.store.RedeemReward(r.Context(), redemption); err != nil {
		if errors.Is(err, repository.ErrInsufficientPoints) {
			writeFail(w, http.StatusConflict, "Insufficient points")
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.recordActivity(r.Context(), claims.UserID, "redeem_reward", optional(reward.Name))
	writeSuccess(w, http.StatusCreated, "Redemption requested", map[string]interface{}{"redemption": viewRedemption(redemption)})
}

func (s *Server) handleListRedemptions(w http.ResponseWriter, r *http.Request) {
	claims := userFromContext(r.Context())
	if claims.Role == roleAdmin {
		redemptions, err := s.store.ListAllRedemptions(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, map[string]interface{}{"redemptions": viewRedemptions(redemptions)})
		return
	}
	redemptions, err := s.store.ListRedemptionsByUser(r.Context(), claims.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"redemptions": viewRedemptions(redemptions)})
}

type redemptionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected completed"`
}

func (s *Server) handleSetRedemptionStatus(w http.ResponseWriter, r *http.Request) {
	var req redemptionStatusRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	err := s.store.SetRedemptionStatus(r.Context(), chi.URLParam(r, "redemptionID"), req.Status, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Redemption not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Redemption status updated", nil)
}
