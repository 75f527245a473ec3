package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"panelhub/server/internal/cache"
	"panelhub/server/internal/crypto"
	"panelhub/server/internal/model"
	"panelhub/server/internal/repository"
)

func openTestDB(t *testing.T) *pgxpool.Pool {
	url := os.Getenv("PANEL_TEST_DB")
	if url == "" {
		t.Skip("PANEL_TEST_DB not set")
		return nil
	}
	pool, err := repository.NewPool(context.Background(), url)
	if err != nil {
		t.Skipf("db unavailable: %v", err)
		return nil
	}
	return pool
}

// TestSurveyLifecycle drives a full researcher/panelist round trip
// against a real database: register, verify, publish a survey, take
// it, and check the points landed.
func TestSurveyLifecycle(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	store := repository.NewStore(pool)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	server := NewServer(testConfig(), zap.NewNop(), store, cache.New("", ""))
	app := httptest.NewServer(server.Router())
	defer app.Close()

	suffix := time.Now().Format("150405.000000")
	researcherEmail := "researcher." + suffix + "@example.local"
	panelistEmail := "panelist." + suffix + "@example.local"

	researcherToken := signUp(t, app.URL, researcherEmail, "researcher")
	panelistToken := signUp(t, app.URL, panelistEmail, "panelist")

	// Researcher publishes a survey.
	resp := doReq(t, http.MethodPost, app.URL+"/api/surveys", researcherToken, map[string]interface{}{
		"title":        "Coffee habits " + suffix,
		"questions":    []map[string]interface{}{{"id": "q1", "text": "Cups per day?", "type": "number"}},
		"rewardPoints": 40,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create survey: expected 201, got %d", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	var survey struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data["survey"], &survey); err != nil {
		t.Fatalf("decode survey: %v", err)
	}

	resp = doReq(t, http.MethodPatch, app.URL+"/api/surveys/"+survey.ID+"/status", researcherToken, map[string]interface{}{
		"status": "active",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("activate survey: expected 200, got %d", resp.StatusCode)
	}

	// Panelist starts and completes it.
	resp = doReq(t, http.MethodPost, app.URL+"/api/survey-responses/start", panelistToken, map[string]interface{}{
		"surveyId": survey.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start response: expected 201, got %d", resp.StatusCode)
	}
	env = decodeEnvelope(t, resp)
	var response struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data["response"], &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Starting again returns the same in-progress row.
	resp = doReq(t, http.MethodPost, app.URL+"/api/survey-responses/start", panelistToken, map[string]interface{}{
		"surveyId": survey.ID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("restart: expected 200, got %d", resp.StatusCode)
	}

	resp = doReq(t, http.MethodPost, app.URL+"/api/survey-responses/"+response.ID+"/complete", panelistToken, map[string]interface{}{
		"qualified": true,
		"answers":   map[string]interface{}{"q1": 3},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d", resp.StatusCode)
	}

	// Completing twice never credits twice.
	resp = doReq(t, http.MethodPost, app.URL+"/api/survey-responses/"+response.ID+"/complete", panelistToken, map[string]interface{}{
		"qualified": true,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("repeat complete: expected 409, got %d", resp.StatusCode)
	}

	resp = doReq(t, http.MethodGet, app.URL+"/api/auth/me", panelistToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", resp.StatusCode)
	}
	env = decodeEnvelope(t, resp)
	var me struct {
		Points int `json:"points"`
	}
	if err := json.Unmarshal(env.Data["user"], &me); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if me.Points != 40 {
		t.Fatalf("expected 40 points, got %d", me.Points)
	}
}

// TestOTPExpiryAndReuse exercises the consume-once guard directly: an
// expired code never verifies, a live code verifies exactly once and
// flips the email flag in the same statement.
func TestOTPExpiryAndReuse(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	ctx := context.Background()
	store := repository.NewStore(pool)
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        "otp." + now.Format("150405.000000") + "@example.local",
		PasswordHash: "unused",
		Role:         model.RolePanelist,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	hash := crypto.HashOTP("654321")

	// Expired codes never consume.
	if err := store.SetUserOTP(ctx, user.ID, hash, model.OTPPurposeVerifyEmail, now.Add(-time.Minute), now); err != nil {
		t.Fatalf("set expired otp: %v", err)
	}
	if err := store.ConsumeUserOTP(ctx, user.ID, hash, model.OTPPurposeVerifyEmail, now); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict for expired code, got %v", err)
	}

	// A live code consumes once and verifies the email with it.
	if err := store.SetUserOTP(ctx, user.ID, hash, model.OTPPurposeVerifyEmail, now.Add(10*time.Minute), now); err != nil {
		t.Fatalf("set otp: %v", err)
	}
	if err := store.ConsumeUserOTP(ctx, user.ID, hash, model.OTPPurposeVerifyEmail, now); err != nil {
		t.Fatalf("consume otp: %v", err)
	}
	got, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !got.IsEmailVerified {
		t.Fatalf("expected email verified after consuming verify code")
	}

	// Second use of the same code fails.
	if err := store.ConsumeUserOTP(ctx, user.ID, hash, model.OTPPurposeVerifyEmail, now); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict for reused code, got %v", err)
	}
}

// TestProjectAssignmentSettlesBids checks that assigning a project
// accepts the winner's bid and rejects the rest in one step.
func TestProjectAssignmentSettlesBids(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	ctx := context.Background()
	store := repository.NewStore(pool)
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	now := time.Now().UTC()
	newVendor := func(label string) model.Vendor {
		v := model.Vendor{
			ID:           uuid.NewString(),
			Email:        label + "." + now.Format("150405.000000") + "@example.local",
			PasswordHash: "unused",
			Name:         label,
			Status:       model.VendorStatusActive,
			CreatedAt:    now,
		}
		if err := store.CreateVendor(ctx, v); err != nil {
			t.Fatalf("create vendor %s: %v", label, err)
		}
		return v
	}
	poster := newVendor("poster")
	winner := newVendor("winner")
	loser := newVendor("loser")

	project := model.Project{
		ID:          uuid.NewString(),
		PostedBy:    poster.ID,
		Title:       "Fieldwork wave",
		Description: "National omnibus fieldwork",
		Status:      model.ProjectStatusOpen,
		Details:     model.DefaultProjectDetails(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	placeBid := func(vendorID string, amount float64) {
		err := store.CreateBid(ctx, model.Bid{
			ID:        uuid.NewString(),
			ProjectID: project.ID,
			VendorID:  vendorID,
			BidAmount: amount,
			Status:    model.BidStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("create bid for %s: %v", vendorID, err)
		}
	}
	placeBid(winner.ID, 1000)
	placeBid(loser.ID, 1200)

	if err := store.AssignProject(ctx, project.ID, winner.ID, now); err != nil {
		t.Fatalf("assign project: %v", err)
	}

	bids, err := store.ListBidsByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("list bids: %v", err)
	}
	for _, b := range bids {
		want := model.BidStatusRejected
		if b.VendorID == winner.ID {
			want = model.BidStatusAccepted
		}
		if b.Status != want {
			t.Errorf("bid by %s: expected %s, got %s", b.VendorID, want, b.Status)
		}
	}

	assigned, err := store.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if assigned.Status != model.ProjectStatusAssigned {
		t.Fatalf("expected assigned project, got %s", assigned.Status)
	}
	if assigned.AssignedTo == nil || *assigned.AssignedTo != winner.ID {
		t.Fatalf("expected assignee %s, got %v", winner.ID, assigned.AssignedTo)
	}
}

// signUp registers, verifies with the fixed test-mode code, and logs
// in, returning a usable token.
func signUp(t *testing.T, baseURL, email, role string) string {
	t.Helper()
	resp := doReq(t, http.MethodPost, baseURL+"/api/auth/register", "", map[string]interface{}{
		"email":     email,
		"password":  "dev-password",
		"firstName": "Test",
		"lastName":  "Account",
		"role":      role,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", email, resp.StatusCode)
	}

	resp = doReq(t, http.MethodPost, baseURL+"/api/auth/verify-otp", "", map[string]interface{}{
		"email": email,
		"otp":   "123456",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify %s: expected 200, got %d", email, resp.StatusCode)
	}

	resp = doReq(t, http.MethodPost, baseURL+"/api/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "dev-password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", email, resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	var token string
	if err := json.Unmarshal(env.Data["token"], &token); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return token
}
