package httpapi

import (
	"encoding/json"
	"time"

	"panelhub/server/internal/model"
)

type userView struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"isActive"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	Points          int        `json:"points"`
	TotalPoints     int        `json:"totalPoints"`
	Phone           *string    `json:"phone,omitempty"`
	DateOfBirth     *time.Time `json:"dateOfBirth,omitempty"`
	Gender          *string    `json:"gender,omitempty"`
	Country         *string    `json:"country,omitempty"`
	City            *string    `json:"city,omitempty"`
	Occupation      *string    `json:"occupation,omitempty"`
	Education       *string    `json:"education,omitempty"`
	Employment      *string    `json:"employment,omitempty"`
	Industry        *string    `json:"industry,omitempty"`
	IncomeRange     *string    `json:"incomeRange,omitempty"`
	HouseholdSize   *int       `json:"householdSize,omitempty"`
	MaritalStatus   *string    `json:"maritalStatus,omitempty"`
	Language        *string    `json:"language,omitempty"`
	Interests       []string   `json:"interests,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func viewUser(u model.User) userView {
	return userView{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Role:            u.Role,
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		Points:          u.Points,
		TotalPoints:     u.TotalPoints,
		Phone:           u.Profile.Phone,
		DateOfBirth:     u.Profile.DateOfBirth,
		Gender:          u.Profile.Gender,
		Country:         u.Profile.Country,
		City:            u.Profile.City,
		Occupation:      u.Profile.Occupation,
		Education:       u.Profile.Education,
		Employment:      u.Profile.Employment,
		Industry:        u.Profile.Industry,
		IncomeRange:     u.Profile.IncomeRange,
		HouseholdSize:   u.Profile.HouseholdSize,
		MaritalStatus:   u.Profile.MaritalStatus,
		Language:        u.Profile.Language,
		Interests:       u.Profile.Interests,
		CreatedAt:       u.CreatedAt,
	}
}

func viewUsers(users []model.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, viewUser(u))
	}
	return out
}

type sessionView struct {
	ID         string    `json:"id"`
	UserAgent  *string   `json:"userAgent,omitempty"`
	IPAddress  *string   `json:"ipAddress,omitempty"`
	IssuedAt   time.Time `json:"issuedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	LastUsedAt time.Time `json:"lastUsedAt"`
}

func viewSessions(sessions []model.UserSession) []sessionView {
	out := make([]sessionView, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionView{
			ID:         sess.ID,
			UserAgent:  sess.UserAgent,
			IPAddress:  sess.IPAddress,
			IssuedAt:   sess.IssuedAt,
			ExpiresAt:  sess.ExpiresAt,
			LastUsedAt: sess.LastUsedAt,
		})
	}
	return out
}

type activityView struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Detail    *string   `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func viewActivity(items []model.UserActivity) []activityView {
	out := make([]activityView, 0, len(items))
	for _, item := range items {
		out = append(out, activityView{ID: item.ID, Action: item.Action, Detail: item.Detail, CreatedAt: item.CreatedAt})
	}
	return out
}

type surveyView struct {
	ID               string          `json:"id"`
	CreatedBy        string          `json:"createdBy"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Questions        json.RawMessage `json:"questions"`
	TargetCriteria   json.RawMessage `json:"targetCriteria"`
	RewardPoints     int             `json:"rewardPoints"`
	EstimatedMinutes int             `json:"estimatedMinutes"`
	Status           string          `json:"status"`
	ResponseCount    int             `json:"responseCount"`
	MaxResponses     *int            `json:"maxResponses,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func viewSurvey(sv model.Survey) surveyView {
	return surveyView{
		ID:               sv.ID,
		CreatedBy:        sv.CreatedBy,
		Title:            sv.Title,
		Description:      sv.Description,
		Questions:        sv.Questions,
		TargetCriteria:   sv.TargetCriteria,
		RewardPoints:     sv.RewardPoints,
		EstimatedMinutes: sv.EstimatedMinutes,
		Status:           sv.Status,
		ResponseCount:    sv.ResponseCount,
		MaxResponses:     sv.MaxResponses,
		CreatedAt:        sv.CreatedAt,
		UpdatedAt:        sv.UpdatedAt,
	}
}

func viewSurveys(surveys []model.Survey) []surveyView {
	out := make([]surveyView, 0, len(surveys))
	for _, sv := range surveys {
		out = append(out, viewSurvey(sv))
	}
	return out
}

type responseView struct {
	ID            string          `json:"id"`
	SurveyID      string          `json:"surveyId"`
	RespondentID  string          `json:"respondentId"`
	Status        string          `json:"status"`
	Answers       json.RawMessage `json:"answers"`
	StartedAt     time.Time       `json:"startedAt"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	PointsAwarded int             `json:"pointsAwarded"`
	Qualified     *bool           `json:"qualified,omitempty"`
}

func viewResponse(resp model.SurveyResponse) responseView {
	return responseView{
		ID:            resp.ID,
		SurveyID:      resp.SurveyID,
		RespondentID:  resp.RespondentID,
		Status:        resp.Status,
		Answers:       resp.Answers,
		StartedAt:     resp.StartedAt,
		CompletedAt:   resp.CompletedAt,
		PointsAwarded: resp.PointsAwarded,
		Qualified:     resp.Qualified,
	}
}

func viewResponses(responses []model.SurveyResponse) []responseView {
	out := make([]responseView, 0, len(responses))
	for _, resp := range responses {
		out = append(out, viewResponse(resp))
	}
	return out
}

type rewardView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PointsCost  int       `json:"pointsCost"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func viewReward(rw model.Reward) rewardView {
	return rewardView{
		ID:          rw.ID,
		Name:        rw.Name,
		Description: rw.Description,
		PointsCost:  rw.PointsCost,
		Category:    rw.Category,
		IsActive:    rw.IsActive,
		CreatedAt:   rw.CreatedAt,
	}
}

func viewRewards(rewards []model.Reward) []rewardView {
	out := make([]rewardView, 0, len(rewards))
	for _, rw := range rewards {
		out = append(out, viewReward(rw))
	}
	return out
}

type redemptionView struct {
	ID          string    `json:"id"`
	RewardID    string    `json:"rewardId"`
	UserID      string    `json:"userId"`
	PointsSpent int       `json:"pointsSpent"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func viewRedemption(rd model.RewardRedemption) redemptionView {
	return redemptionView{
		ID:          rd.ID,
		RewardID:    rd.RewardID,
		UserID:      rd.UserID,
		PointsSpent: rd.PointsSpent,
		Status:      rd.Status,
		CreatedAt:   rd.CreatedAt,
		UpdatedAt:   rd.UpdatedAt,
	}
}

func viewRedemptions(redemptions []model.RewardRedemption) []redemptionView {
	out := make([]redemptionView, 0, len(redemptions))
	for _, rd := range redemptions {
		out = append(out, viewRedemption(rd))
	}
	return out
}

type vendorView struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Company        *string   `json:"company,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Website        *string   `json:"website,omitempty"`
	Status         string    `json:"status"`
	Description    *string   `json:"description,omitempty"`
	Services       []string  `json:"services,omitempty"`
	Industries     []string  `json:"industries,omitempty"`
	FoundedYear    *int      `json:"foundedYear,omitempty"`
	EmployeeCount  *int      `json:"employeeCount,omitempty"`
	Certifications []string  `json:"certifications,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func viewVendor(v model.Vendor) vendorView {
	return vendorView{
		ID:             v.ID,
		Email:          v.Email,
		Name:           v.Name,
		Company:        v.Company,
		Phone:          v.Phone,
		Website:        v.Website,
		Status:         v.Status,
		Description:    v.Description,
		Services:       v.Services,
		Industries:     v.Industries,
		FoundedYear:    v.FoundedYear,
		EmployeeCount:  v.EmployeeCount,
		Certifications: v.Certifications,
		CreatedAt:      v.CreatedAt,
	}
}

// vendorCard is the public shape: no email, no status detail.
type vendorCard struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Company  *string  `json:"company,omitempty"`
	Website  *string  `json:"website,omitempty"`
	Services []string `json:"services,omitempty"`
}

func viewVendorCard(v model.Vendor) vendorCard {
	return vendorCard{ID: v.ID, Name: v.Name, Company: v.Company, Website: v.Website, Services: v.Services}
}

type projectView struct {
	ID          string         `json:"id"`
	PostedBy    string         `json:"postedBy"`
	AssignedTo  *string        `json:"assignedTo,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Budget      float64        `json:"budget"`
	Deadline    *time.Time     `json:"deadline,omitempty"`
	Status      string         `json:"status"`
	Details     projectDetails `json:"details"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type projectDetails struct {
	Category              string  `json:"category"`
	TargetAudience        string  `json:"targetAudience"`
	SampleSize            int     `json:"sampleSize"`
	CPI                   float64 `json:"cpi"`
	LOI                   int     `json:"loi"`
	IR                    int     `json:"ir"`
	Currency              string  `json:"currency"`
	Timeline              string  `json:"timeline,omitempty"`
	Requirements          string  `json:"requirements,omitempty"`
	Deliverables          string  `json:"deliverables,omitempty"`
	SurveyType            string  `json:"surveyType"`
	QuotaRequirements     string  `json:"quotaRequirements,omitempty"`
	QualityChecks         string  `json:"qualityChecks,omitempty"`
	DataFormat            string  `json:"dataFormat"`
	ReportingRequirements string  `json:"reportingRequirements,omitempty"`
	SpecialInstructions   string  `json:"specialInstructions,omitempty"`
}

func viewProject(p model.Project) projectView {
	return projectView{
		ID:          p.ID,
		PostedBy:    p.PostedBy,
		AssignedTo:  p.AssignedTo,
		Title:       p.Title,
		Description: p.Description,
		Budget:      p.Budget,
		Deadline:    p.Deadline,
		Status:      p.Status,
		Details: projectDetails{
			Category:              p.Details.Category,
			TargetAudience:        p.Details.TargetAudience,
			SampleSize:            p.Details.SampleSize,
			CPI:                   p.Details.CPI,
			LOI:                   p.Details.LOI,
			IR:                    p.Details.IR,
			Currency:              p.Details.Currency,
			Timeline:              p.Details.Timeline,
			Requirements:          p.Details.Requirements,
			Deliverables:          p.Details.Deliverables,
			SurveyType:            p.Details.SurveyType,
			QuotaRequirements:     p.Details.QuotaRequirements,
			QualityChecks:         p.Details.QualityChecks,
			DataFormat:            p.Details.DataFormat,
			ReportingRequirements: p.Details.ReportingRequirements,
			SpecialInstructions:   p.Details.SpecialInstructions,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func viewProjects(projects []model.Project) []projectView {
	out := make([]projectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, viewProject(p))
	}
	return out
}

type bidView struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	VendorID  string    `json:"vendorId"`
	BidAmount float64   `json:"bidAmount"`
	Message   *string   `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func viewBid(b model.Bid) bidView {
	return bidView{
		ID:        b.ID,
		ProjectID: b.ProjectID,
		VendorID:  b.VendorID,
		BidAmount: b.BidAmount,
		Message:   b.Message,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}

func viewBids(bids []model.Bid) []bidView {
	out := make([]bidView, 0, len(bids))
	for _, b := range bids {
		out = append(out, viewBid(b))
	}
	return out
}

type messageView struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"projectId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Body       string    `json:"message"`
	SentAt     time.Time `json:"sentAt"`
}

func viewMessages(messages []model.Message) []messageView {
	out := make([]messageView, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageView{
			ID:         m.ID,
			ProjectID:  m.ProjectID,
			SenderID:   m.SenderID,
			ReceiverID: m.ReceiverID,
			Body:       m.Body,
			SentAt:     m.SentAt,
		})
	}
	return out
}

type ticketView struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Priority  string    `json:"priority"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func viewTicket(t model.SupportTicket) ticketView {
	return ticketView{
		ID:        t.ID,
		Category:  t.Category,
		Priority:  t.Priority,
		Subject:   t.Subject,
		Message:   t.Message,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
}

func viewTickets(tickets []model.SupportTicket) []ticketView {
	out := make([]ticketView, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, viewTicket(t))
	}
	return out
}
