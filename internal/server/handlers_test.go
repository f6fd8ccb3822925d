package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	authdomain "github.com/retentionops/portal/internal/auth/domain"
	"github.com/retentionops/portal/internal/auth/session"
	"github.com/retentionops/portal/internal/config"
	notesdomain "github.com/retentionops/portal/internal/notes/domain"
	payoutdomain "github.com/retentionops/portal/internal/payout/domain"
	"github.com/retentionops/portal/internal/ratelimit"
	reportingdomain "github.com/retentionops/portal/internal/reporting/domain"
	"github.com/retentionops/portal/internal/routes"
)

type fakeAuthService struct {
	identities map[string]*authdomain.Identity
	loginUser  *authdomain.User
	loginCalls int
}

func (f *fakeAuthService) CreateUser(ctx context.Context, req authdomain.CreateUserRequest) (*authdomain.User, error) {
	_ = ctx
	return &authdomain.User{ID: snowflake.ID(900), Email: req.Email, Role: req.Role}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	f.loginCalls++
	_ = ctx
	_ = req
	if f.loginUser == nil {
		return nil, authdomain.ErrInvalidCredentials
	}
	return &authdomain.LoginResult{
		User:      f.loginUser,
		RawToken:  "session-token",
		ExpiresAt: time.Now().Add(time.Hour),
		SessionID: snowflake.ID(300),
	}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, rawToken string) error {
	_ = ctx
	_ = rawToken
	return nil
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (*authdomain.Session, error) {
	_ = ctx
	_ = rawToken
	return nil, nil
}

func (f *fakeAuthService) ResolveIdentity(ctx context.Context, rawToken string) (*authdomain.Identity, error) {
	_ = ctx
	identity, ok := f.identities[rawToken]
	if !ok {
		return nil, authdomain.ErrInvalidSession
	}
	return identity, nil
}

func (f *fakeAuthService) ChangePassword(ctx context.Context, userID snowflake.ID, newPassword string) error {
	_ = ctx
	_ = userID
	_ = newPassword
	return nil
}

type fakeAuthzService struct {
	denied bool
}

func (f *fakeAuthzService) Authorize(ctx context.Context, role, object, action string) error {
	_ = ctx
	_ = role
	_ = object
	_ = action
	if f.denied {
		return ErrForbidden
	}
	return nil
}

type fakeReportingService struct{}

func (f *fakeReportingService) AffiliateSummary(ctx context.Context, affiliateID snowflake.ID) (*reportingdomain.AffiliateSummary, error) {
	_ = ctx
	_ = affiliateID
	return &reportingdomain.AffiliateSummary{}, nil
}

func (f *fakeReportingService) TeamSummary(ctx context.Context) (*reportingdomain.TeamSummary, error) {
	_ = ctx
	return &reportingdomain.TeamSummary{
		Agents: []reportingdomain.AgentPerformance{
			{AgentID: snowflake.ID(5), AgentName: "Secret Agent", Email: "agent@internal.example"},
		},
		TotalAgents: 1,
	}, nil
}

type fakePayoutService struct{}

func (f *fakePayoutService) EnsureAccount(ctx context.Context, identity authdomain.Identity) (string, error) {
	_ = ctx
	_ = identity
	return "acct_test", nil
}

func (f *fakePayoutService) Onboard(ctx context.Context, identity authdomain.Identity) (*payoutdomain.OnboardResult, error) {
	_ = ctx
	_ = identity
	return &payoutdomain.OnboardResult{AccountID: "acct_test", URL: "https://connect.example.com/onboard"}, nil
}

type fakeNoteService struct {
	createCalls int
}

func (f *fakeNoteService) ListByLead(ctx context.Context, leadID snowflake.ID) ([]notesdomain.LeadNote, error) {
	_ = ctx
	_ = leadID
	return nil, nil
}

func (f *fakeNoteService) Create(ctx context.Context, req notesdomain.CreateRequest) (*notesdomain.LeadNote, error) {
	f.createCalls++
	_ = ctx
	if strings.TrimSpace(req.Content) == "" {
		return nil, notesdomain.ErrMissingContent
	}
	return &notesdomain.LeadNote{ID: snowflake.ID(1), LeadID: req.LeadID, AgentID: req.AgentID, Content: req.Content}, nil
}

func newTestServer(authsvc authdomain.Service) *Server {
	cfg := config.Load()
	return &Server{
		cfg:      cfg,
		authsvc:  authsvc,
		sessions: session.NewManager(cfg),
		authzSvc: &fakeAuthzService{},
	}
}

func agentIdentity() *authdomain.Identity {
	return &authdomain.Identity{
		UserID:      snowflake.ID(42),
		Email:       "agent@example.com",
		DisplayName: "Agent",
		Role:        routes.RoleRetentionAgent,
	}
}

func TestLoginReturnsHomeRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authsvc := &fakeAuthService{
		loginUser: &authdomain.User{
			ID:          snowflake.ID(7),
			Email:       "agent@example.com",
			DisplayName: "Agent",
			Role:        routes.RoleRetentionAgent,
		},
	}
	srv := newTestServer(authsvc)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/auth/login", srv.Login)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"agent@example.com","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var view identityView
	if err := json.Unmarshal(resp.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.HomeRoute != "/agent" {
		t.Fatalf("expected home route /agent, got %q", view.HomeRoute)
	}

	cookies := resp.Result().Cookies()
	found := false
	for _, cookie := range cookies {
		if cookie.Name == srv.sessions.CookieName() && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected session cookie to be set")
	}
}

func TestMeWithoutSessionIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := newTestServer(&fakeAuthService{identities: map[string]*authdomain.Identity{}})

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/auth/me", srv.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Redirect != "/login" {
		t.Fatalf("expected redirect /login, got %q", body.Error.Redirect)
	}
}

func TestAdminAreaRedirectsAgentToAffiliateDashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authsvc := &fakeAuthService{identities: map[string]*authdomain.Identity{
		"agent-token": agentIdentity(),
	}}
	srv := newTestServer(authsvc)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	admin := router.Group("/admin", srv.AuthRequired(), srv.AdminAreaGuard())
	admin.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"users": []string{}})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: srv.sessions.CookieName(), Value: "agent-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Redirect != "/affiliate/dashboard" {
		t.Fatalf("expected redirect /affiliate/dashboard, got %q", body.Error.Redirect)
	}
}

func TestTeamReportClosedToAffiliates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	affiliate := &authdomain.Identity{
		UserID:      snowflake.ID(77),
		Email:       "affiliate@example.com",
		DisplayName: "Affiliate",
		Role:        routes.RoleAffiliate,
	}
	authsvc := &fakeAuthService{identities: map[string]*authdomain.Identity{
		"affiliate-token": affiliate,
	}}
	srv := newTestServer(authsvc)
	srv.reportingSvc = &fakeReportingService{}

	// The policy check is deliberately permissive here: the role gate
	// alone must keep an affiliate off the team report.
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/manager/team",
		srv.AuthRequired(),
		srv.RequireRole(routes.RoleSalesManager, routes.RoleAdmin),
		srv.TeamSummary,
	)

	req := httptest.NewRequest(http.MethodGet, "/api/manager/team", nil)
	req.AddCookie(&http.Cookie{Name: srv.sessions.CookieName(), Value: "affiliate-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.Code, resp.Body.String())
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Redirect != "/affiliate" {
		t.Fatalf("expected redirect /affiliate, got %q", body.Error.Redirect)
	}
	if strings.Contains(resp.Body.String(), "Secret Agent") {
		t.Fatal("team data must not leak to affiliates")
	}
}

func TestPayoutOnboardingThrottledPerCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)

	affiliate := &authdomain.Identity{
		UserID:      snowflake.ID(77),
		Email:       "affiliate@example.com",
		DisplayName: "Affiliate",
		Role:        routes.RoleAffiliate,
	}
	authsvc := &fakeAuthService{identities: map[string]*authdomain.Identity{
		"affiliate-token": affiliate,
	}}
	srv := newTestServer(authsvc)
	srv.payoutSvc = &fakePayoutService{}
	srv.payoutLimiter = ratelimit.NewFixedWindow(1, time.Minute)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/stripe/connect", srv.AuthRequired(), srv.PayoutRateLimit(), srv.StripeConnect)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/stripe/connect", nil)
		req.AddCookie(&http.Cookie{Name: srv.sessions.CookieName(), Value: "affiliate-token"})
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	if resp := send(); resp.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d: %s", resp.Code, resp.Body.String())
	}

	resp := send()
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header")
	}
}

func TestGuardRedirectsAgentToOwnArea(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authsvc := &fakeAuthService{identities: map[string]*authdomain.Identity{
		"agent-token": agentIdentity(),
	}}
	srv := newTestServer(authsvc)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/auth/guard", srv.Guard)

	req := httptest.NewRequest(http.MethodGet, "/auth/guard?path=/manager/team", nil)
	req.AddCookie(&http.Cookie{Name: srv.sessions.CookieName(), Value: "agent-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		State    string `json:"state"`
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.State != "redirecting" {
		t.Fatalf("expected redirecting state, got %q", body.State)
	}
	if body.Redirect != "/agent" {
		t.Fatalf("expected redirect /agent, got %q", body.Redirect)
	}
}

func TestCreateNoteMissingContentIsFieldError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	authsvc := &fakeAuthService{identities: map[string]*authdomain.Identity{
		"agent-token": agentIdentity(),
	}}
	noteSvc := &fakeNoteService{}
	srv := newTestServer(authsvc)
	srv.noteSvc = noteSvc

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/notes", srv.AuthRequired(), srv.CreateNote)

	req := httptest.NewRequest(http.MethodPost, "/api/notes", bytes.NewBufferString(`{"lead_id":"99","content":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: srv.sessions.CookieName(), Value: "agent-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Error.Errors) == 0 || body.Error.Errors[0].Field != "content" {
		t.Fatalf("expected content field error, got %+v", body.Error)
	}
}
