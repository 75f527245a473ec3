package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"panelhub/server/internal/auth"
	"panelhub/server/internal/cache"
	"panelhub/server/internal/config"
	"panelhub/server/internal/crypto"
	"panelhub/server/internal/model"
	"panelhub/server/internal/repository"
)

// stubStore overrides only the methods a test needs. Calling anything
// else panics through the embedded nil interface, which is the point.
type stubStore struct {
	Store

	createUser       func(u model.User) error
	getUserByEmail   func(email string) (model.User, error)
	setUserOTP       func(userID, otpHash, purpose string) error
	createSession    func(session model.UserSession) error
	getSurvey        func(surveyID string) (model.Survey, error)
	getInProgress    func(surveyID, respondentID string) (model.SurveyResponse, error)
	createResponse   func(resp model.SurveyResponse) error
	getResponse      func(responseID string) (model.SurveyResponse, error)
	completeResponse func(responseID string, qualified bool, points int) error
	getReward        func(rewardID string) (model.Reward, error)
	redeemReward     func(redemption model.RewardRedemption) error
	getProject       func(projectID string) (model.Project, error)
	updateProject    func(p model.Project) error
	createBid        func(b model.Bid) error
	getBid           func(bidID string) (model.Bid, error)
	updateBid        func(bidID string, amount float64, status string) error
	hasBid           func(projectID, vendorID string) (bool, error)
	consumeUserOTP   func(userID, otpHash, purpose string) error
}

func (s *stubStore) CreateUser(_ context.Context, u model.User) error {
	return s.createUser(u)
}

func (s *stubStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	return s.getUserByEmail(email)
}

func (s *stubStore) SetUserOTP(_ context.Context, userID, otpHash, purpose string, _, _ time.Time) error {
	if s.setUserOTP != nil {
		return s.setUserOTP(userID, otpHash, purpose)
	}
	return nil
}

func (s *stubStore) CreateSession(_ context.Context, session model.UserSession) error {
	if s.createSession != nil {
		return s.createSession(session)
	}
	return nil
}

func (s *stubStore) RecordActivity(_ context.Context, _ model.UserActivity) error {
	return nil
}

func (s *stubStore) GetSurvey(_ context.Context, surveyID string) (model.Survey, error) {
	return s.getSurvey(surveyID)
}

func (s *stubStore) GetInProgressResponse(_ context.Context, surveyID, respondentID string) (model.SurveyResponse, error) {
	return s.getInProgress(surveyID, respondentID)
}

func (s *stubStore) CreateResponse(_ context.Context, resp model.SurveyResponse) error {
	return s.createResponse(resp)
}

func (s *stubStore) GetResponse(_ context.Context, responseID string) (model.SurveyResponse, error) {
	return s.getResponse(responseID)
}

func (s *stubStore) CompleteResponse(_ context.Context, responseID string, qualified bool, _ json.RawMessage, points int, _ time.Time) error {
	return s.completeResponse(responseID, qualified, points)
}

func (s *stubStore) GetReward(_ context.Context, rewardID string) (model.Reward, error) {
	return s.getReward(rewardID)
}

func (s *stubStore) GetSystemSettings(_ context.Context) (model.SystemSettings, error) {
	return model.SystemSettings{MinRedemptionPoints: 100}, nil
}

func (s *stubStore) RedeemReward(_ context.Context, redemption model.RewardRedemption) error {
	return s.redeemReward(redemption)
}

func (s *stubStore) GetProject(_ context.Context, projectID string) (model.Project, error) {
	return s.getProject(projectID)
}

func (s *stubStore) UpdateProject(_ context.Context, p model.Project, _ time.Time) error {
	return s.updateProject(p)
}

func (s *stubStore) CreateBid(_ context.Context, b model.Bid) error {
	return s.createBid(b)
}

func (s *stubStore) GetBid(_ context.Context, bidID string) (model.Bid, error) {
	return s.getBid(bidID)
}

func (s *stubStore) UpdateBid(_ context.Context, bidID string, amount float64, _ *string, status string, _ time.Time) error {
	return s.updateBid(bidID, amount, status)
}

func (s *stubStore) HasBid(_ context.Context, projectID, vendorID string) (bool, error) {
	return s.hasBid(projectID, vendorID)
}

func (s *stubStore) ConsumeUserOTP(_ context.Context, userID, otpHash, purpose string, _ time.Time) error {
	return s.consumeUserOTP(userID, otpHash, purpose)
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:           "test-secret",
		JWTIssuer:           "test-issuer",
		TokenTTL:            time.Hour,
		OTPTTL:              10 * time.Minute,
		BcryptCost:          4,
		AuthTestMode:        true,
		LoginAttempts:       5,
		LoginAttemptsWindow: 15 * time.Minute,
	}
}

func newTestServer(store Store) *Server {
	return NewServer(testConfig(), zap.NewNop(), store, cache.New("", ""))
}

func userToken(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := auth.NewUserToken("test-secret", "test-issuer", time.Hour, auth.UserClaims{
		UserID: userID,
		Email:  userID + "@example.local",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("sign user token: %v", err)
	}
	return token
}

func vendorToken(t *testing.T, vendorID string) string {
	t.Helper()
	token, err := auth.NewVendorToken("test-secret", "test-issuer", time.Hour, auth.VendorClaims{
		VendorID: vendorID,
		Email:    vendorID + "@example.local",
	})
	if err != nil {
		t.Fatalf("sign vendor token: %v", err)
	}
	return token
}

func doReq(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type testEnvelope struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    map[string]json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := &stubStore{
		createUser: func(model.User) error { return repository.ErrConflict },
	}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	resp := doReq(t, http.MethodPost, app.URL+"/api/auth/register", "", map[string]interface{}{
		"email":     "dup@example.local",
		"password":  "secret123",
		"firstName": "Dup",
		"lastName":  "User",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestLoginGates(t *testing.T) {
	hash, err := crypto.HashPassword("secret123", 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	account := model.User{
		ID:           "u1",
		Email:        "gate@example.local",
		PasswordHash: hash,
		Role:         model.RolePanelist,
	}
	store := &stubStore{}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	login := func(password string) *http.Response {
		return doReq(t, http.MethodPost, app.URL+"/api/auth/login", "", map[string]interface{}{
			"email":    account.Email,
			"password": password,
		})
	}

	// Wrong password.
	store.getUserByEmail = func(string) (model.User, error) { return account, nil }
	if resp := login("wrong"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", resp.StatusCode)
	}

	// Right password but unverified email.
	if resp := login("secret123"); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for unverified email, got %d", resp.StatusCode)
	}

	// Verified but deactivated.
	account.IsEmailVerified = true
	account.IsActive = false
	if resp := login("secret123"); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for deactivated account, got %d", resp.StatusCode)
	}

	// Verified and active.
	account.IsActive = true
	resp := login("secret123")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if _, ok := env.Data["token"]; !ok {
		t.Fatalf("expected token in login response")
	}
}

func TestStartSurveyIdempotent(t *testing.T) {
	survey := model.Survey{ID: "s1", Status: model.SurveyStatusActive, RewardPoints: 50}
	existing := model.SurveyResponse{ID: "r-existing", SurveyID: "s1", RespondentID: "u1", Status: model.ResponseStatusInProgress}

	// The insert hits the partial unique index and the handler re-reads
	// the row that won the race.
	returnedNotFound := false
	store := &stubStore{
		getSurvey: func(string) (model.Survey, error) { return survey, nil },
		getInProgress: func(string, string) (model.SurveyResponse, error) {
			if !returnedNotFound {
				returnedNotFound = true
				return model.SurveyResponse{}, repository.ErrNotFound
			}
			return existing, nil
		},
		createResponse: func(model.SurveyResponse) error { return repository.ErrConflict },
	}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	token := userToken(t, "u1", model.RolePanelist)
	resp := doReq(t, http.MethodPost, app.URL+"/api/survey-responses/start", token, map[string]interface{}{
		"surveyId": "s1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for concurrent start, got %d", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	var got struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data["response"], &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != existing.ID {
		t.Fatalf("expected existing response %s, got %s", existing.ID, got.ID)
	}
}

func TestStartSurveyRejectsInactive(t *testing.T) {
	store := &stubStore{
		getSurvey: func(string) (model.Survey, error) {
			return model.Survey{ID: "s1", Status: model.SurveyStatusDraft}, nil
		},
	}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	token := userToken(t, "u1", model.RolePanelist)
	resp := doReq(t, http.MethodPost, app.URL+"/api/survey-responses/start", token, map[string]interface{}{
		"surveyId": "s1",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCompleteResponseOnce(t *testing.T) {
	response := model.SurveyResponse{ID: "r1", SurveyID: "s1", RespondentID: "u1", Status: model.ResponseStatusInProgress}
	survey := model.Survey{ID: "s1", Status: model.SurveyStatusActive, RewardPoints: 75}

	completions := 0
	store := &stubStore{
		getResponse: func(string) (model.SurveyResponse, error) { return response, nil },
		getSurvey:   func(string) (model.Survey, error) { return survey, nil },
		completeResponse: func(_ string, qualified bool, points int) error {
			completions++
			if completions > 1 {
				return repository.ErrConflict
			}
			if !qualified || points != 75 {
				t.Errorf("expected qualified completion worth 75, got qualified=%v points=%d", qualified, points)
			}
			return nil
		},
	}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	token := userToken(t, "u1", model.RolePanelist)
	body := map[string]interface{}{"qualified": true}

	resp := doReq(t, http.MethodPost, app.URL+"/api/survey-responses/r1/complete", token, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	var awarded int
	if err := json.Unmarshal(env.Data["pointsAwarded"], &awarded); err != nil {
		t.Fatalf("decode pointsAwarded: %v", err)
	}
	if awarded != 75 {
		t.Fatalf("expected 75 points, got %d", awarded)
	}

	// Second completion conflicts instead of double crediting.
	resp = doReq(t, http.MethodPost, app.URL+"/api/survey-responses/r1/complete", token, body)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for repeat completion, got %d", resp.StatusCode)
	}
}

func TestCompleteResponseOwnership(t *testing.T) {
	store := &stubStore{
		getResponse: func(string) (model.SurveyResponse, error) {
			return model.SurveyResponse{ID: "r1", RespondentID: "someone-else"}, nil
		},
	}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	token := userToken(t, "u1", model.RolePanelist)
	resp := doReq(t, http.MethodPost, app.URL+"/api/survey-responses/r1/complete", token, map[string]interface{}{
		"qualified": true,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for someone else's response, got %d", resp.StatusCode)
	}
}

func TestRedeemReward(t *testing.T) {
	reward := model.Reward{ID: "rw1", Name: "Gift Card", PointsCost: 500, IsActive: true}
	store := &stubStore{
		getReward:    func(string) (model.Reward, error) { return reward, nil },
		redeemReward: func(model.RewardRedemption) error { return repository.ErrInsufficientPoints },
	}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	token := userToken(t, "u1", model.RolePanelist)
	resp := doReq(t, http.MethodPost, app.URL+"/api/rewards/rw1/redeem", token, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for insufficient points, got %d", resp.StatusCode)
	}

	store.redeemReward = func(redemption model.RewardRedemption) error {
		if redemption.PointsSpent != 500 {
			t.Errorf("expected 500 points spent, got %d", redemption.PointsSpent)
		}
		if redemption.Status != model.RedemptionStatusPending {
			t.Errorf("expected pending redemption, got %s", redemption.Status)
		}
		return nil
	}
	resp = doReq(t, http.MethodPost, app.URL+"/api/rewards/rw1/redeem", token, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestRedeemRewardBelowMinimum(t *testing.T) {
	// Stub settings fix the minimum at 100 points.
	store := &stubStore{
		getReward: func(string) (model.Reward, error) {
			return model.Reward{ID: "rw2", PointsCost: 50, IsActive: true}, nil
		},
	}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	token := userToken(t, "u1", model.RolePanelist)
	resp := doReq(t, http.MethodPost, app.URL+"/api/rewards/rw2/redeem", token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for reward below minimum, got %d", resp.StatusCode)
	}
}

func TestPlaceBid(t *testing.T) {
	project := model.Project{ID: "p1", PostedBy: "v1", Status: model.ProjectStatusOpen}
	store := &stubStore{
		getProject: func(string) (model.Project, error) { return project, nil },
		createBid:  func(model.Bid) error { return nil },
	}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	body := map[string]interface{}{"bidAmount": 1200.0}

	// Poster cannot bid on their own project.
	resp := doReq(t, http.MethodPost, app.URL+"/api/vendor/projects/p1/bids", vendorToken(t, "v1"), body)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for self bid, got %d", resp.StatusCode)
	}

	// Another vendor can.
	resp = doReq(t, http.MethodPost, app.URL+"/api/vendor/projects/p1/bids", vendorToken(t, "v2"), body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	// Second bid on the same project conflicts.
	store.createBid = func(model.Bid) error { return repository.ErrConflict }
	resp = doReq(t, http.MethodPost, app.URL+"/api/vendor/projects/p1/bids", vendorToken(t, "v2"), body)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate bid, got %d", resp.StatusCode)
	}
}

func TestTokenNamespaces(t *testing.T) {
	store := &stubStore{}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	// No token at all.
	resp := doReq(t, http.MethodGet, app.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	// A vendor token never opens a user route.
	resp = doReq(t, http.MethodGet, app.URL+"/api/auth/me", vendorToken(t, "v1"), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for vendor token on user route, got %d", resp.StatusCode)
	}

	// And a user token never opens a vendor route.
	resp = doReq(t, http.MethodGet, app.URL+"/api/vendor/profile", userToken(t, "u1", model.RoleAdmin), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for user token on vendor route, got %d", resp.StatusCode)
	}
}

func TestRoleGuard(t *testing.T) {
	store := &stubStore{}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	token := userToken(t, "u1", model.RolePanelist)

	resp := doReq(t, http.MethodGet, app.URL+"/api/users", token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for panelist on admin route, got %d", resp.StatusCode)
	}

	// System settings are admin-only, even for authenticated panelists.
	resp = doReq(t, http.MethodGet, app.URL+"/api/settings/system", token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for panelist on system settings, got %d", resp.StatusCode)
	}

	resp = doReq(t, http.MethodGet, app.URL+"/api/panelists/demographics", token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for panelist on demographics, got %d", resp.StatusCode)
	}
}

func TestVerifyOTPConsumedOnce(t *testing.T) {
	account := model.User{ID: "u1", Email: "once@example.local"}
	consumed := false
	store := &stubStore{
		getUserByEmail: func(string) (model.User, error) { return account, nil },
		consumeUserOTP: func(_, _, purpose string) error {
			if purpose != model.OTPPurposeVerifyEmail {
				t.Errorf("expected verify_email purpose, got %s", purpose)
			}
			if consumed {
				return repository.ErrConflict
			}
			consumed = true
			return nil
		},
	}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	body := map[string]interface{}{"email": account.Email, "otp": "123456"}

	resp := doReq(t, http.MethodPost, app.URL+"/api/auth/verify-otp", "", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on first verify, got %d", resp.StatusCode)
	}

	// The code is gone after the first use.
	resp = doReq(t, http.MethodPost, app.URL+"/api/auth/verify-otp", "", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 on reused code, got %d", resp.StatusCode)
	}
}

func TestUpdateProjectStatus(t *testing.T) {
	project := model.Project{ID: "p1", PostedBy: "v1", Status: model.ProjectStatusAssigned}
	var saved model.Project
	store := &stubStore{
		getProject:    func(string) (model.Project, error) { return project, nil },
		updateProject: func(p model.Project) error { saved = p; return nil },
	}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	body := map[string]interface{}{
		"title":       "Consumer panel refresh",
		"description": "Wave two of the consumer panel study",
		"budget":      5000.0,
		"status":      "completed",
	}
	resp := doReq(t, http.MethodPut, app.URL+"/api/vendor/projects/p1", vendorToken(t, "v1"), body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if saved.Status != model.ProjectStatusCompleted {
		t.Fatalf("expected status completed, got %s", saved.Status)
	}

	// Omitting status keeps the current one.
	delete(body, "status")
	resp = doReq(t, http.MethodPut, app.URL+"/api/vendor/projects/p1", vendorToken(t, "v1"), body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if saved.Status != model.ProjectStatusAssigned {
		t.Fatalf("expected status assigned, got %s", saved.Status)
	}

	// Unknown statuses are rejected.
	body["status"] = "bogus"
	resp = doReq(t, http.MethodPut, app.URL+"/api/vendor/projects/p1", vendorToken(t, "v1"), body)
	if resp.StatusCode != http.StatusUnprocessableEntity && resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected validation failure, got %d", resp.StatusCode)
	}

	// Only the poster may update.
	body["status"] = "completed"
	resp = doReq(t, http.MethodPut, app.URL+"/api/vendor/projects/p1", vendorToken(t, "v2"), body)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-poster, got %d", resp.StatusCode)
	}
}

func TestWithdrawBid(t *testing.T) {
	bid := model.Bid{ID: "b1", ProjectID: "p1", VendorID: "v2", BidAmount: 900, Status: model.BidStatusPending}
	var savedStatus string
	store := &stubStore{
		getBid: func(string) (model.Bid, error) { return bid, nil },
		updateBid: func(_ string, _ float64, status string) error {
			savedStatus = status
			return nil
		},
	}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	body := map[string]interface{}{"bidAmount": 900.0, "status": "withdrawn"}

	// Only the bidder can touch the bid.
	resp := doReq(t, http.MethodPut, app.URL+"/api/vendor/bids/b1", vendorToken(t, "v1"), body)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for someone else's bid, got %d", resp.StatusCode)
	}

	resp = doReq(t, http.MethodPut, app.URL+"/api/vendor/bids/b1", vendorToken(t, "v2"), body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if savedStatus != model.BidStatusWithdrawn {
		t.Fatalf("expected withdrawn, got %s", savedStatus)
	}

	// A settled bid can no longer change.
	bid.Status = model.BidStatusRejected
	resp = doReq(t, http.MethodPut, app.URL+"/api/vendor/bids/b1", vendorToken(t, "v2"), body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for settled bid, got %d", resp.StatusCode)
	}
}

func TestProjectMessagesStoreError(t *testing.T) {
	project := model.Project{ID: "p1", PostedBy: "v1", Status: model.ProjectStatusOpen}
	store := &stubStore{
		getProject: func(string) (model.Project, error) { return project, nil },
		hasBid:     func(string, string) (bool, error) { return false, context.DeadlineExceeded },
	}
	app := httptest.NewServer(newTestServer(store).Router())
	defer app.Close()

	// A failed bid lookup is a server error, not a denial.
	resp := doReq(t, http.MethodGet, app.URL+"/api/vendor/projects/p1/messages", vendorToken(t, "v2"), nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the bid lookup fails, got %d", resp.StatusCode)
	}
}
