package model

import (
	"encoding/json"
	"time"
)

const (
	RolePanelist   = "panelist"
	RoleResearcher = "researcher"
	RoleAdmin      = "admin"
)

const (
	OTPPurposeVerifyEmail    = "verify_email"
	OTPPurposeResetPassword  = "reset_password"
	OTPPurposeChangePassword = "change_password"
)

const (
	SurveyStatusDraft     = "draft"
	SurveyStatusActive    = "active"
	SurveyStatusPaused    = "paused"
	SurveyStatusCompleted = "completed"
)

const (
	ResponseStatusInProgress   = "in_progress"
	ResponseStatusCompleted    = "completed"
	ResponseStatusDisqualified = "disqualified"
)

const (
	RedemptionStatusPending   = "pending"
	RedemptionStatusApproved  = "approved"
	RedemptionStatusRejected  = "rejected"
	RedemptionStatusCompleted = "completed"
)

const (
	VendorStatusPending     = "pending_verification"
	VendorStatusActive      = "active"
	VendorStatusDeactivated = "deactivated"
)

const (
	ProjectStatusOpen       = "open"
	ProjectStatusAssigned   = "assigned"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusCancelled  = "cancelled"
)

const (
	BidStatusPending   = "pending"
	BidStatusAccepted  = "accepted"
	BidStatusRejected  = "rejected"
	BidStatusWithdrawn = "withdrawn"
)

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

type User struct {
	ID                string
	Email             string
	PasswordHash      string
	FirstName         string
	LastName          string
	Role              string
	IsActive          bool
	IsEmailVerified   bool
	OTPHash           *string
	OTPPurpose        *string
	OTPExpiresAt      *time.Time
	Points            int
	TotalPoints       int
	Profile           UserProfile
	Notifications     NotificationSettings
	Privacy           PrivacySettings
	PasswordChangedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type UserProfile struct {
	Phone         *string
	DateOfBirth   *time.Time
	Gender        *string
	Country       *string
	City          *string
	Occupation    *string
	Education     *string
	Employment    *string
	Industry      *string
	IncomeRange   *string
	HouseholdSize *int
	MaritalStatus *string
	Language      *string
	Interests     []string
}

type NotificationSettings struct {
	EmailNotifications bool
	SurveyInvites      bool
	MarketingEmails    bool
}

type PrivacySettings struct {
	ProfileVisibility string
	ShowActivity      bool
	AllowDataSharing  bool
}

type UserSession struct {
	ID         string
	UserID     string
	TokenHash  string
	UserAgent  *string
	IPAddress  *string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	LastUsedAt time.Time
	IsActive   bool
}

type UserActivity struct {
	ID        string
	UserID    string
	Action    string
	Detail    *string
	CreatedAt time.Time
}

type Vendor struct {
	ID             string
	Email          string
	PasswordHash   string
	Name           string
	Company        *string
	Phone          *string
	Website        *string
	Status         string
	OTPHash        *string
	OTPExpiresAt   *time.Time
	Description    *string
	Services       []string
	Industries     []string
	FoundedYear    *int
	EmployeeCount  *int
	Certifications []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Survey struct {
	ID               string
	CreatedBy        string
	Title            string
	Description      string
	Questions        json.RawMessage
	TargetCriteria   json.RawMessage
	RewardPoints     int
	EstimatedMinutes int
	Status           string
	ResponseCount    int
	MaxResponses     *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type SurveyResponse struct {
	ID            string
	SurveyID      string
	RespondentID  string
	Status        string
	Answers       json.RawMessage
	StartedAt     time.Time
	CompletedAt   *time.Time
	PointsAwarded int
	Qualified     *bool
}

type Reward struct {
	ID          string
	Name        string
	Description string
	PointsCost  int
	Category    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type RewardRedemption struct {
	ID          string
	RewardID    string
	UserID      string
	PointsSpent int
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Project struct {
	ID          string
	PostedBy    string
	AssignedTo  *string
	Title       string
	Description string
	Budget      float64
	Deadline    *time.Time
	Status      string
	Details     ProjectDetails
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectDetails carries the structured marketplace metadata for a
// project. Every field has a serving default so partially specified
// projects stay readable.
type ProjectDetails struct {
	Category              string
	TargetAudience        string
	SampleSize            int
	CPI                   float64
	LOI                   int
	IR                    int
	Currency              string
	Timeline              string
	Requirements          string
	Deliverables          string
	SurveyType            string
	QuotaRequirements     string
	QualityChecks         string
	DataFormat            string
	ReportingRequirements string
	SpecialInstructions   string
}

type Bid struct {
	ID        string
	ProjectID string
	VendorID  string
	BidAmount float64
	Message   *string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Message struct {
	ID         string
	ProjectID  string
	SenderID   string
	ReceiverID string
	Body       string
	SentAt     time.Time
}

type SupportTicket struct {
	ID        string
	UserID    string
	Category  string
	Priority  string
	Subject   string
	Message   string
	Status    string
	CreatedAt time.Time
}

type SystemSettings struct {
	SiteName            string
	SupportEmail        string
	MaintenanceMode     bool
	MinRedemptionPoints int
	UpdatedAt           time.Time
}

// DefaultProjectDetails mirrors the serving defaults applied when a
// poster leaves metadata fields unset.
func DefaultProjectDetails() ProjectDetails {
	return ProjectDetails{
		Category:       "General",
		TargetAudience: "General Population",
		SampleSize:     100,
		Currency:       "USD",
		SurveyType:     "Online",
		DataFormat:     "SPSS",
	}
}
