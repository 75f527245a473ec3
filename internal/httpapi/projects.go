package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"panelhub/server/internal/model"
	"panelhub/server/internal/repository"
)

type projectRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"required"`
	Budget      float64    `json:"budget" validate:"min=0"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `json:"status" validate:"omitempty,oneof=open assigned in_progress completed cancelled"`

	Category              string  `json:"category"`
	TargetAudience        string  `json:"targetAudience"`
	SampleSize            int     `json:"sampleSize" validate:"omitempty,min=1"`
	CPI                   float64 `json:"cpi" validate:"min=0"`
	LOI                   int     `json:"loi" validate:"min=0"`
	IR                    int     `json:"ir" validate:"min=0,max=100"`
	Currency              string  `json:"currency"`
	Timeline              string  `json:"timeline"`
	Requirements          string  `json:"requirements"`
	Deliverables          string  `json:"deliverables"`
	SurveyType            string  `json:"surveyType"`
	QuotaRequirements     string  `json:"quotaRequirements"`
	QualityChecks         string  `json:"qualityChecks"`
	DataFormat            string  `json:"dataFormat"`
	ReportingRequirements string  `json:"reportingRequirements"`
	SpecialInstructions   string  `json:"specialInstructions"`
}

func (req *projectRequest) details() model.ProjectDetails {
	d := model.DefaultProjectDetails()
	if req.Category != "" {
		d.Category = req.Category
	}
	if req.TargetAudience != "" {
		d.TargetAudience = req.TargetAudience
	}
	if req.SampleSize > 0 {
		d.SampleSize = req.SampleSize
	}
	if req.Currency != "" {
		d.Currency = req.Currency
	}
	if req.SurveyType != "" {
		d.SurveyType = req.SurveyType
	}
	if req.DataFormat != "" {
		d.DataFormat = req.DataFormat
	}
	d.CPI = req.CPI
	d.LOI = req.LOI
	d.IR = req.IR
	d.Timeline = req.Timeline
	d.Requirements = req.Requirements
	d.Deliverables = req.Deliverables
	d.QuotaRequirements = req.QuotaRequirements
	d.QualityChecks = req.QualityChecks
	d.ReportingRequirements = req.ReportingRequirements
	d.SpecialInstructions = req.SpecialInstructions
	return d
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	var req projectRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	now := s.now()
	project := model.Project{
		ID:          s.newID(),
		PostedBy:    claims.VendorID,
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Deadline:    req.Deadline,
		Status:      model.ProjectStatusOpen,
		Details:     req.details(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProject(r.Context(), project); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Project created", map[string]interface{}{
		"project": viewProject(project),
	})
}

func (s *Server) handleMyProjects(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	projects, err := s.store.ListProjectsByVendor(r.Context(), claims.VendorID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"projects": viewProjects(projects)})
}

func (s *Server) handleAvailableProjects(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	projects, err := s.store.ListOpenProjects(r.Context(), claims.VendorID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"projects": viewProjects(projects)})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	// Open projects are browsable by any vendor; once assigned, only
	// the poster and the assignee can still read them.
	if project.Status != model.ProjectStatusOpen && !projectParticipant(project, claims.VendorID) {
		writeFail(w, http.StatusForbidden, "Forbidden")
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"project": viewProject(project)})
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	if project.PostedBy != claims.VendorID {
		writeFail(w, http.StatusForbidden, "Only the project owner can update it")
		return
	}
	var req projectRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	project.Title = req.Title
	project.Description = req.Description
	project.Budget = req.Budget
	project.Deadline = req.Deadline
	project.Details = req.details()
	if req.Status != "" {
		project.Status = req.Status
	}
	if err := s.store.UpdateProject(r.Context(), project, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Project updated", nil)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	if project.PostedBy != claims.VendorID {
		writeFail(w, http.StatusForbidden, "Only the project owner can delete it")
		return
	}
	if err := s.store.DeleteProject(r.Context(), project.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Project deleted", nil)
}

type assignProjectRequest struct {
	VendorID string `json:"vendorId" validate:"required"`
}

func (s *Server) handleAssignProject(w http.ResponseWriter, r *http.Request) {
	claims := vendorFromContext(r.Context())
	project, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	if project.PostedBy != claims.VendorID {
		writeFail(w, http.StatusForbidden, "Only the project owner can assign it")
		return
	}
	if project.Status != model.ProjectStatusOpen {
		writeFail(w, http.StatusBadRequest, "Project is not open")
		return
	}
	var req assignProjectRequest
	if !s.decodeValid(w, r, &req) {
		return
	}
	if _, err := s.store.GetVendorByID(r.Context(), req.VendorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Vendor not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	if err := s.store.AssignProject(r.Context(), project.ID, req.VendorID, s.now()); err != nil {
		s.serverError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Project assigned", nil)
}

func (s *Server) loadProject(w http.ResponseWriter, r *http.Request) (model.Project, bool) {
	project, err := s.store.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeFail(w, http.StatusNotFound, "Project not found")
			return model.Project{}, false
		}
		s.serverError(w, r, err)
		return model.Project{}, false
	}
	return project, true
}

func projectParticipant(p model.Project, vendorID string) bool {
	if p.PostedBy == vendorID {
		return true
	}
	return p.AssignedTo != nil && *p.AssignedTo == vendorID
}
