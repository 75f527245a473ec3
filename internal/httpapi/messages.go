package httpapi

import (
	"net/http"

	"panelhub/server/internal/model"
)

type messageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Message    string `json:"message" validate:"required,max=2000"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	allowed, err := s.projectConversant(r, project, claims.VendorID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !allowed {
		writeFail(w, http.StatusForbidden, "Forbidden")
		return
	}
	var req messageRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	msg := model.Message{
		ID:         s.newID(),
		ProjectID:  project.ID,
		SenderID:   claims.VendorID,
		ReceiverID: req.ReceiverID,
		Body:       req.Message,
		SentAt:     s.now(),
	}
	if err := s.store.CreateMessage(r.Context(), msg); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Message sent", nil)
}

func (s *Server) handleProjectMessages(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	allowed, err := s.projectConversant(r, project, claims.VendorID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !allowed {
		writeFail(w, http.StatusForbidden, "Forbidden")
		return
	}
	messages, err := s.store.ListMessagesByProject(r.Context(), project.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"messages": viewMessages(messages)})
}

func (s *Server) handleMyMessages(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	messages, err := s.store.ListMessagesForVendor(r.Context(), claims.VendorID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"messages": viewMessages(messages)})
}

// projectConversant reports whether a vendor may join a project's
// message thread: the poster, the assignee, or any vendor with a bid
// on the project.
func (s *Server) projectConversant(r *http.Request, project model.Project, vendorID string) (bool, error) {
	if projectParticipant(project, vendorID) {
		return true, nil
	}
	return s.store.HasBid(r.Context(), project.ID, vendorID)
}
