package httpapi

import (
	"context"
	"encoding/json"
	"time"

	"panelhub/server/internal/model"
	"panelhub/server/internal/repository"
)

// Store is everything the handlers need from persistence. The pgx
// repository is the production implementation; tests substitute stubs.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u model.User) error
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	ListUsers(ctx context.Context, role string, limit, offset int) ([]model.User, int, error)
	UpdateUser(ctx context.Context, userID, firstName, lastName, role string, now time.Time) error
	UpdateUserProfile(ctx context.Context, userID, firstName, lastName string, p model.UserProfile, now time.Time) error
	UpdateNotificationSettings(ctx context.Context, userID string, n model.NotificationSettings, now time.Time) error
	UpdatePrivacySettings(ctx context.Context, userID string, p model.PrivacySettings, now time.Time) error
	SetUserActive(ctx context.Context, userID string, active bool, now time.Time) error
	DeleteUser(ctx context.Context, userID string) error
	SetUserOTP(ctx context.Context, userID, otpHash, purpose string, expiresAt, now time.Time) error
	ConsumeUserOTP(ctx context.Context, userID, otpHash, purpose string, now time.Time) error
	UpdatePassword(ctx context.Context, userID, passwordHash string, now time.Time) error

	CreateSession(ctx context.Context, session model.UserSession) error
	ListActiveSessions(ctx context.Context, userID string, now time.Time) ([]model.UserSession, error)
	RevokeSession(ctx context.Context, sessionID, userID string) error
	RevokeAllSessions(ctx context.Context, userID string) error
	RecordActivity(ctx context.Context, activity model.UserActivity) error
	ListActivity(ctx context.Context, userID string, limit int) ([]model.UserActivity, error)

	CreateSurvey(ctx context.Context, sv model.Survey) error
	GetSurvey(ctx context.Context, surveyID string) (model.Survey, error)
	ListActiveSurveys(ctx context.Context) ([]model.Survey, error)
	ListSurveysByCreator(ctx context.Context, creatorID string) ([]model.Survey, error)
	ListAllSurveys(ctx context.Context) ([]model.Survey, error)
	UpdateSurvey(ctx context.Context, sv model.Survey, now time.Time) error
	SetSurveyStatus(ctx context.Context, surveyID, status string, now time.Time) error
	DeleteSurvey(ctx context.Context, surveyID string) error

	CreateResponse(ctx context.Context, resp model.SurveyResponse) error
	GetResponse(ctx context.Context, responseID string) (model.SurveyResponse, error)
	GetInProgressResponse(ctx context.Context, surveyID, respondentID string) (model.SurveyResponse, error)
	SaveAnswers(ctx context.Context, responseID string, answers json.RawMessage) error
	CompleteResponse(ctx context.Context, responseID string, qualified bool, answers json.RawMessage, points int, now time.Time) error
	ListResponsesByUser(ctx context.Context, userID string, limit int) ([]model.SurveyResponse, error)
	ListResponsesBySurvey(ctx context.Context, surveyID string) ([]model.SurveyResponse, error)
	CountResponsesByUser(ctx context.Context, userID, status string) (int, error)

	CreateReward(ctx context.Context, rw model.Reward) error
	GetReward(ctx context.Context, rewardID string) (model.Reward, error)
	ListRewards(ctx context.Context, activeOnly bool) ([]model.Reward, error)
	UpdateReward(ctx context.Context, rw model.Reward, now time.Time) error
	DeleteReward(ctx context.Context, rewardID string) error
	RedeemReward(ctx context.Context, redemption model.RewardRedemption) error
	ListRedemptionsByUser(ctx context.Context, userID string) ([]model.RewardRedemption, error)
	ListAllRedemptions(ctx context.Context, status string) ([]model.RewardRedemption, error)
	SetRedemptionStatus(ctx context.Context, redemptionID, status string, now time.Time) error

	CreateVendor(ctx context.Context, v model.Vendor) error
	GetVendorByEmail(ctx context.Context, email string) (model.Vendor, error)
	GetVendorByID(ctx context.Context, vendorID string) (model.Vendor, error)
	UpdateVendorProfile(ctx context.Context, v model.Vendor, now time.Time) error
	SetVendorOTP(ctx context.Context, vendorID, otpHash string, expiresAt, now time.Time) error
	ConsumeVendorOTP(ctx context.Context, vendorID, otpHash string, now time.Time) error
	ListRecentVendors(ctx context.Context, limit int) ([]model.Vendor, error)
	GetVendorAnalytics(ctx context.Context, vendorID string) (repository.VendorAnalytics, error)

	CreateProject(ctx context.Context, p model.Project) error
	GetProject(ctx context.Context, projectID string) (model.Project, error)
	ListProjectsByVendor(ctx context.Context, vendorID string) ([]model.Project, error)
	ListOpenProjects(ctx context.Context, excludeVendorID string) ([]model.Project, error)
	UpdateProject(ctx context.Context, p model.Project, now time.Time) error
	DeleteProject(ctx context.Context, projectID string) error
	AssignProject(ctx context.Context, projectID, assigneeID string, now time.Time) error

	CreateBid(ctx context.Context, b model.Bid) error
	GetBid(ctx context.Context, bidID string) (model.Bid, error)
	ListBidsByProject(ctx context.Context, projectID string) ([]model.Bid, error)
	ListBidsByVendor(ctx context.Context, vendorID string) ([]model.Bid, error)
	HasBid(ctx context.Context, projectID, vendorID string) (bool, error)
	UpdateBid(ctx context.Context, bidID string, amount float64, message *string, status string, now time.Time) error
	DeleteBid(ctx context.Context, bidID string) error

	CreateMessage(ctx context.Context, m model.Message) error
	ListMessagesByProject(ctx context.Context, projectID string) ([]model.Message, error)
	ListMessagesForVendor(ctx context.Context, vendorID string) ([]model.Message, error)

	CreateTicket(ctx context.Context, t model.SupportTicket) error
	ListTicketsByUser(ctx context.Context, userID string) ([]model.SupportTicket, error)
	GetTicket(ctx context.Context, ticketID, userID string) (model.SupportTicket, error)

	GetSystemSettings(ctx context.Context) (model.SystemSettings, error)
	UpdateSystemSettings(ctx context.Context, settings model.SystemSettings, now time.Time) error

	GetPanelistMonthly(ctx context.Context, userID string, months int, now time.Time) (repository.PanelistMonthly, error)
	GetPanelistDemographics(ctx context.Context) (repository.PanelistDemographics, error)
	GetPanelistStats(ctx context.Context, panelistID string) (repository.PanelistStats, error)
	GetUsersOverview(ctx context.Context) (repository.UsersOverview, error)
}
