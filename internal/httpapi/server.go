package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"panelhub/server/internal/auth"
	"panelhub/server/internal/cache"
	"panelhub/server/internal/config"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "panelhub_http_requests_total",
	Help: "HTTP requests by method, route and status.",
}, []string{"method", "route", "status"})

type Server struct {
	cfg      config.Config
	log      *zap.Logger
	store    Store
	cache    *cache.Cache
	validate *validator.Validate

	now   func() time.Time
	newID func() string
}

func NewServer(cfg config.Config, log *zap.Logger, store Store, c *cache.Cache) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		store:    store,
		cache:    c,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.NewString() },
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.corsMiddleware)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/verify-otp", s.handleVerifyOTP)
			r.Post("/resend-otp", s.handleResendOTP)
			r.Post("/login", s.handleLogin)
			r.Post("/forgot-password", s.handleForgotPassword)
			r.Post("/reset-password", s.handleResetPassword)
			r.With(s.userAuth).Post("/change-password", s.handleChangePassword)
			r.With(s.userAuth).Get("/me", s.handleMe)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(s.userAuth)
			r.With(s.requireRole(roleAdmin, roleResearcher)).Get("/", s.handleListUsers)
			r.With(s.requireRole(roleAdmin, roleResearcher)).Get("/{userID}", s.handleGetUser)
			r.With(s.requireRole(roleAdmin)).Put("/{userID}", s.handleUpdateUser)
			r.With(s.requireRole(roleAdmin)).Delete("/{userID}", s.handleDeleteUser)
			r.With(s.requireRole(roleAdmin)).Patch("/{userID}/status", s.handleSetUserStatus)
			r.With(s.requireRole(roleAdmin)).Get("/stats/overview", s.handleUsersOverview)
		})

		r.Route("/panelists", func(r chi.Router) {
			r.Use(s.userAuth, s.requireRole(rolePanelist, roleResearcher, roleAdmin))
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
			r.Get("/profile-completion", s.handleProfileCompletion)
			r.Get("/devices", s.handleListDevices)
			r.Delete("/devices/{sessionID}", s.handleRevokeDevice)
			r.Post("/logout-all", s.handleLogoutAll)
			r.Get("/data-export", s.handleDataExport)
			r.Post("/request-delete", s.handleRequestDelete)
			r.Get("/activity", s.handleListActivity)
			r.With(s.requireRole(roleResearcher, roleAdmin)).Get("/demographics", s.handlePanelistDemographics)
			r.With(s.requireRole(roleResearcher, roleAdmin)).Get("/stats/{panelistID}", s.handlePanelistStats)
		})

		r.Route("/surveys", func(r chi.Router) {
			r.Use(s.userAuth)
			r.With(s.requireRole(roleResearcher, roleAdmin)).Post("/", s.handleCreateSurvey)
			r.Get("/", s.handleListSurveys)
			r.Get("/{surveyID}", s.handleGetSurvey)
			r.With(s.requireRole(roleResearcher, roleAdmin)).Put("/{surveyID}", s.handleUpdateSurvey)
			r.With(s.requireRole(roleResearcher, roleAdmin)).Delete("/{surveyID}", s.handleDeleteSurvey)
			r.With(s.requireRole(roleResearcher, roleAdmin)).Patch("/{surveyID}/status", s.handleSetSurveyStatus)
		})

		r.Route("/survey-responses", func(r chi.Router) {
			r.Use(s.userAuth)
			r.With(s.requireRole(rolePanelist, roleResearcher, roleAdmin)).Post("/start", s.handleStartResponse)
			r.With(s.requireRole(rolePanelist, roleResearcher, roleAdmin)).Put("/{responseID}/save", s.handleSaveResponse)
			r.With(s.requireRole(rolePanelist, roleResearcher, roleAdmin)).Post("/{responseID}/complete", s.handleCompleteResponse)
			r.With(s.requireRole(rolePanelist, roleResearcher, roleAdmin)).Get("/mine", s.handleMyResponses)
			r.With(s.requireRole(roleResearcher, roleAdmin)).Get("/survey/{surveyID}", s.handleSurveyResponses)
		})

		r.Route("/rewards", func(r chi.Router) {
			r.Use(s.userAuth)
			r.Get("/", s.handleListRewards)
			r.With(s.requireRole(roleAdmin)).Post("/", s.handleCreateReward)
			r.With(s.requireRole(roleAdmin)).Put("/{rewardID}", s.handleUpdateReward)
			r.With(s.requireRole(roleAdmin)).Delete("/{rewardID}", s.handleDeleteReward)
			r.With(s.requireRole(rolePanelist, roleResearcher, roleAdmin)).Post("/{rewardID}/redeem", s.handleRedeemReward)
			r.Get("/redemptions", s.handleListRedemptions)
			r.With(s.requireRole(roleAdmin)).Patch("/redemptions/{redemptionID}/status", s.handleSetRedemptionStatus)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(s.userAuth)
			r.With(s.requireRole(roleAdmin)).Get("/system", s.handleGetSystemSettings)
			r.With(s.requireRole(roleAdmin)).Put("/system", s.handleUpdateSystemSettings)
			r.Get("/user", s.handleGetUserSettings)
			r.Put("/user", s.handleUpdateUserSettings)
			r.Get("/privacy", s.handleGetPrivacySettings)
			r.Put("/privacy", s.handleUpdatePrivacySettings)
			r.Get("/security", s.handleGetSecuritySettings)
		})

		r.Route("/support", func(r chi.Router) {
			r.Use(s.userAuth, s.requireRole(rolePanelist, roleResearcher, roleAdmin))
			r.Post("/tickets", s.handleCreateTicket)
			r.Get("/tickets", s.handleListTickets)
			r.Get("/tickets/{ticketID}", s.handleGetTicket)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Use(s.userAuth, s.requireRole(rolePanelist, roleResearcher, roleAdmin))
			r.Get("/panelist/monthly", s.handlePanelistMonthly)
		})

		r.Route("/vendor", func(r chi.Router) {
			r.Post("/register", s.handleVendorRegister)
			r.Post("/verify-otp", s.handleVendorVerifyOTP)
			r.Post("/login", s.handleVendorLogin)
			r.Get("/vendors/{vendorID}", s.handleGetVendorCard)

			r.Group(func(r chi.Router) {
				r.Use(s.vendorAuth)
				r.Get("/profile", s.handleVendorProfile)
				r.Put("/profile", s.handleVendorUpdateProfile)
				r.Get("/profile-completion", s.handleVendorProfileCompletion)
				r.Get("/analytics", s.handleVendorAnalytics)
				r.Get("/community-feed", s.handleVendorCommunityFeed)

				r.Post("/projects", s.handleCreateProject)
				r.Get("/projects", s.handleMyProjects)
				r.Get("/projects/available", s.handleAvailableProjects)
				r.Get("/projects/{projectID}", s.handleGetProject)
				r.Put("/projects/{projectID}", s.handleUpdateProject)
				r.Delete("/projects/{projectID}", s.handleDeleteProject)
				r.Patch("/projects/{projectID}/assign", s.handleAssignProject)

				r.Get("/bids", s.handleMyBids)
				r.Post("/projects/{projectID}/bids", s.handlePlaceBid)
				r.Get("/projects/{projectID}/bids", s.handleProjectBids)
				r.Put("/bids/{bidID}", s.handleUpdateBid)
				r.Delete("/bids/{bidID}", s.handleDeleteBid)

				r.Get("/messages", s.handleMyMessages)
				r.Post("/projects/{projectID}/messages", s.handleSendMessage)
				r.Get("/projects/{projectID}/messages", s.handleProjectMessages)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeFail(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeSuccess(w, http.StatusOK, "ok", nil)
}

const (
	rolePanelist   = "panelist"
	roleResearcher = "researcher"
	roleAdmin      = "admin"
)

type userClaimsKey struct{}
type vendorClaimsKey struct{}

func (s *Server) userAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeFail(w, http.StatusUnauthorized, "Access token required")
			return
		}
		claims, err := auth.ParseUserToken(s.cfg.JWTSecret, token)
		if err != nil {
			writeFail(w, http.StatusForbidden, "Invalid token")
			return
		}
		ctx := contextWithUser(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) vendorAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeFail(w, http.StatusUnauthorized, "Access token required")
			return
		}
		claims, err := auth.ParseVendorToken(s.cfg.JWTSecret, token)
		if err != nil {
			writeFail(w, http.StatusForbidden, "Invalid token")
			return
		}
		ctx := contextWithVendor(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates an endpoint on an explicit allow-set. Callers list
// every permitted role; there is no implicit hierarchy.
func (s *Server) requireRole(allowed ...string) func(http.Handler) http.Handler {
	allowSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowSet[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := userFromContext(r.Context())
			if claims == nil {
				writeFail(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if _, ok := allowSet[claims.Role]; !ok {
				writeFail(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func writeFieldErrors(w http.ResponseWriter, errs map[string]string) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Validation failed", Errors: errs})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeFail(w, http.StatusInternalServerError, "Internal server error")
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

// decodeValid decodes the body and runs struct-tag validation,
// answering 400 itself on failure.
func (s *Server) decodeValid(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := decodeJSON(r, out); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := s.validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		fields := make(map[string]string)
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fieldName(fe.Field())] = "failed " + fe.Tag() + " validation"
			}
		}
		writeFieldErrors(w, fields)
		return false
	}
	return true
}

func fieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
