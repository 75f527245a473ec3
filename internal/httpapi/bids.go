package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"panelhub/server/internal/model"
	"panelhub/server/internal/repository"
)

type bidRequest struct {
	BidAmount float64 `json:"bidAmount" validate:"required,gt=0"`
	Message   *string `json:"message"`
	Status    string  `json:"status" validate:"omitempty,oneof=pending withdrawn"`
}

func (s *Server) handlePlaceBid(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	if project.PostedBy == claims.VendorID {
		writeFail(w, http.StatusForbidden, "Cannot bid on your own project")
		return
	}
	if project.Status != model.ProjectStatusOpen {
		writeFail(w, http.StatusBadRequest, "Project is not open for bids")
		return
	}
	var req bidRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	now := s.now()
	bid := model.Bid{
		ID:        s.newID(),
		ProjectID: project.ID,
		VendorID:  claims.VendorID,
		BidAmount: req.BidAmount,
		Message:   req.Message,
		Status:    model.BidStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateBid(r.Context(), bid); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeFail(w, http.StatusConflict, "You have already bid on this project")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Bid placed", map[string]interface{}{
		"bid": viewBid(bid),
	})
}

func (s *Server) handleProjectBids(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	if !projectParticipant(project, claims.VendorID) {
		writeFail(w, http.StatusForbidden, "Forbidden")
		return
	}
	bids, err := s.store.ListBidsByProject(r.Context(), project.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"bids": viewBids(bids)})
}

func (s *Server) handleMyBids(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	bids, err := s.store.ListBidsByVendor(r.Context(), claims.VendorID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"bids": viewBids(bids)})
}

func (s *Server) handleUpdateBid(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	bid, ok := s.loadBid(w, r)
	if !ok {
		return
	}
	if bid.VendorID != claims.VendorID {
		writeFail(w, http.StatusForbidden, "Only the bidder can update a bid")
		return
	}
	if bid.Status != model.BidStatusPending {
		writeFail(w, http.StatusBadRequest, "Bid is no longer pending")
		return
	}
	var req bidRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	status := bid.Status
	if req.Status != "" {
		status = req.Status
	}
	if err := s.store.UpdateBid(r.Context(), bid.ID, req.BidAmount, req.Message, status, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Bid updated", nil)
}

func (s *Server) handleDeleteBid(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	bid, ok := s.loadBid(w, r)
	if !ok {
		return
	}
	if bid.VendorID != claims.VendorID {
		writeFail(w, http.StatusForbidden, "Only the bidder can withdraw a bid")
		return
	}
	if err := s.store.DeleteBid(r.Context(), bid.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Bid withdrawn", nil)
}

func (s *Server) loadBid(w http.ResponseWriter, r *http.Request) (model.Bid, bool) {
	bid, err := s.store.GetBid(r.Context(), chi.URLParam(r, "bidID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Bid not found")
			return model.Bid{}, false
		}
		s.serverError(w, r, err)
		return model.Bid{}, false
	}
	return bid, true
}
