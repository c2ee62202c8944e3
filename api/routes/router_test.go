package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/talentbridgehq/talentbridge-backend/internal/assignments"
	pkgauth "github.com/talentbridgehq/talentbridge-backend/pkg/auth"
	"github.com/talentbridgehq/talentbridge-backend/pkg/config"
	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
	"github.com/talentbridgehq/talentbridge-backend/pkg/logger"
	pkgredis "github.com/talentbridgehq/talentbridge-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAssignmentService struct{}

func (stubAssignmentService) Assign(context.Context, assignments.Actor, assignments.AssignInput) (*assignments.AssignResult, error) {
	return &assignments.AssignResult{Assignment: &assignments.AssignmentDTO{}}, nil
}

func (stubAssignmentService) List(context.Context, assignments.ListParams) (*assignments.ListResult, error) {
	return &assignments.ListResult{}, nil
}

func (stubAssignmentService) GetByAgent(context.Context, uuid.UUID) (*assignments.AssignmentDetailDTO, error) {
	return &assignments.AssignmentDetailDTO{}, nil
}

func (stubAssignmentService) GetOwn(context.Context, uuid.UUID) (*assignments.AssignmentDTO, error) {
	return &assignments.AssignmentDTO{}, nil
}

func (stubAssignmentService) Remove(context.Context, assignments.Actor, uuid.UUID, assignments.RemoveInput) (*assignments.AssignmentDetailDTO, error) {
	return &assignments.AssignmentDetailDTO{}, nil
}

func (stubAssignmentService) Delete(context.Context, assignments.Actor, uuid.UUID) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*pkgredis.Client)(nil),
		nil,
		stubAssignmentService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	return buildTokenWithUserID(t, cfg, role, uuid.New())
}

func buildTokenWithUserID(t *testing.T, cfg *config.Config, role enums.UserRole, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHealthReadyDegradesWithoutRedis(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 when db is healthy got %d", resp.Code)
	}
}

func TestAssignmentRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users/agent-assignments"},
		{http.MethodGet, "/users/agent-assignments/me"},
		{http.MethodGet, "/users/agent-assignments/" + uuid.NewString()},
		{http.MethodPost, "/users/agent-assignments"},
		{http.MethodPatch, "/users/agent-assignments/" + uuid.NewString() + "/remove"},
		{http.MethodDelete, "/users/agent-assignments/" + uuid.NewString()},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without token got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestAssignmentMutationsRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	agentToken := buildToken(t, cfg, enums.UserRoleAgent)
	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/users/agent-assignments"},
		{http.MethodPatch, "/users/agent-assignments/" + uuid.NewString() + "/remove"},
		{http.MethodDelete, "/users/agent-assignments/" + uuid.NewString()},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+agentToken)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403 for non-admin got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestAssignmentCreateSucceedsForAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	body := `{"agentId":"` + uuid.NewString() + `","hrIds":[],"candidateIds":[]}`
	req := httptest.NewRequest(http.MethodPost, "/users/agent-assignments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin assign got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestOwnAssignmentAllowsAgent(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/users/agent-assignments/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAgent))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for agent own assignment got %d", resp.Code)
	}
}

func TestOwnAssignmentRejectsHRRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/users/agent-assignments/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleHR))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for hr role got %d", resp.Code)
	}
}

func TestListAssignmentsAllowsAnyAuthenticatedRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/users/agent-assignments", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleHR))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for list got %d", resp.Code)
	}
}

func TestGetAssignmentByAgentRoute(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/users/agent-assignments/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
