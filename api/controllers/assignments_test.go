package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/talentbridgehq/talentbridge-backend/api/middleware"
	"github.com/talentbridgehq/talentbridge-backend/internal/assignments"
	pkgerrors "github.com/talentbridgehq/talentbridge-backend/pkg/errors"
)

func TestAssignResourcesSuccess(t *testing.T) {
	agentID := uuid.New()
	actorID := uuid.New()
	hrID := uuid.New()
	result := &assignments.AssignResult{
		Assignment: &assignments.AssignmentDTO{
			ID:                 uuid.New(),
			AgentID:            agentID,
			AssignedHRs:        []uuid.UUID{hrID},
			AssignedCandidates: []uuid.UUID{},
			AssignedBy:         actorID,
		},
	}
	handler := AssignResources(stubAssignmentService{assignResp: result}, nil)

	payload := []byte(`{"agentId":"` + agentID.String() + `","hrIds":["` + hrID.String() + `"],"candidateIds":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/users/agent-assignments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID.String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data assignments.AssignResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Assignment == nil || envelope.Data.Assignment.AgentID != agentID {
		t.Fatalf("unexpected assignment %+v", envelope.Data.Assignment)
	}
}

func TestAssignResourcesFilteredSummary(t *testing.T) {
	agentID := uuid.New()
	actorID := uuid.New()
	result := &assignments.AssignResult{
		Assignment: &assignments.AssignmentDTO{AgentID: agentID},
		FilteredUsers: &assignments.FilteredUsers{
			OriginalHRCount: 3,
			ActiveHRCount:   2,
		},
	}
	handler := AssignResources(stubAssignmentService{assignResp: result}, nil)

	payload := []byte(`{"agentId":"` + agentID.String() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/users/agent-assignments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID.String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			FilteredUsers *assignments.FilteredUsers `json:"filteredUsers"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.FilteredUsers == nil || envelope.Data.FilteredUsers.OriginalHRCount != 3 {
		t.Fatalf("expected filtered summary got %+v", envelope.Data.FilteredUsers)
	}
}

func TestAssignResourcesMissingUserContext(t *testing.T) {
	handler := AssignResources(stubAssignmentService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/agent-assignments", bytes.NewReader([]byte(`{"agentId":"`+uuid.NewString()+`"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 missing user context got %d", rec.Code)
	}
}

func TestAssignResourcesInvalidAgentID(t *testing.T) {
	handler := AssignResources(stubAssignmentService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/agent-assignments", bytes.NewReader([]byte(`{"agentId":"not-a-uuid"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid agent id got %d", rec.Code)
	}
}

func TestAssignResourcesInvalidListEntry(t *testing.T) {
	handler := AssignResources(stubAssignmentService{}, nil)

	payload := []byte(`{"agentId":"` + uuid.NewString() + `","hrIds":["` + uuid.NewString() + `","bogus"]}`)
	req := httptest.NewRequest(http.MethodPost, "/users/agent-assignments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid list entry got %d", rec.Code)
	}
}

func TestAssignResourcesNoActiveUsers(t *testing.T) {
	handler := AssignResources(stubAssignmentService{
		assignErr: pkgerrors.New(pkgerrors.CodeConflict, "No active users found to assign"),
	}, nil)

	payload := []byte(`{"agentId":"` + uuid.NewString() + `","hrIds":["` + uuid.NewString() + `"]}`)
	req := httptest.NewRequest(http.MethodPost, "/users/agent-assignments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "No active users found to assign" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestListAssignmentsSuccess(t *testing.T) {
	dto := assignments.AssignmentDetailDTO{
		AssignmentDTO: assignments.AssignmentDTO{ID: uuid.New(), AgentID: uuid.New()},
	}
	handler := ListAssignments(stubAssignmentService{listResp: &assignments.ListResult{
		Assignments: []assignments.AssignmentDetailDTO{dto},
		Cursor:      "next",
	}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/agent-assignments?limit=10", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data assignments.ListResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Assignments) != 1 || envelope.Data.Cursor != "next" {
		t.Fatalf("unexpected list result %+v", envelope.Data)
	}
}

func TestListAssignmentsInvalidLimit(t *testing.T) {
	handler := ListAssignments(stubAssignmentService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/agent-assignments?limit=abc", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid limit got %d", rec.Code)
	}
}

func TestGetOwnAssignmentSuccess(t *testing.T) {
	actorID := uuid.New()
	handler := GetOwnAssignment(stubAssignmentService{ownResp: &assignments.AssignmentDTO{
		AgentID:            actorID,
		AssignedHRs:        []uuid.UUID{},
		AssignedCandidates: []uuid.UUID{},
	}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/agent-assignments/me", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID.String()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data assignments.AssignmentDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AgentID != actorID {
		t.Fatalf("expected agent %s got %s", actorID, envelope.Data.AgentID)
	}
}

func TestGetOwnAssignmentMissingContext(t *testing.T) {
	handler := GetOwnAssignment(stubAssignmentService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/users/agent-assignments/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestGetAssignmentSuccess(t *testing.T) {
	agentID := uuid.New()
	handler := GetAssignment(stubAssignmentService{detailResp: &assignments.AssignmentDetailDTO{
		AssignmentDTO: assignments.AssignmentDTO{AgentID: agentID},
	}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/agent-assignments/"+agentID.String(), nil)
	req = withRouteParam(req, "agentId", agentID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestGetAssignmentNotFound(t *testing.T) {
	agentID := uuid.New()
	handler := GetAssignment(stubAssignmentService{
		detailErr: pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found"),
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/agent-assignments/"+agentID.String(), nil)
	req = withRouteParam(req, "agentId", agentID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestGetAssignmentInvalidID(t *testing.T) {
	handler := GetAssignment(stubAssignmentService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users/agent-assignments/not-a-uuid", nil)
	req = withRouteParam(req, "agentId", "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRemoveResourcesSuccess(t *testing.T) {
	agentID := uuid.New()
	actorID := uuid.New()
	hrID := uuid.New()
	handler := RemoveResources(stubAssignmentService{removeResp: &assignments.AssignmentDetailDTO{
		AssignmentDTO: assignments.AssignmentDTO{AgentID: agentID},
	}}, nil)

	payload := []byte(`{"hrIds":["` + hrID.String() + `"],"candidateIds":[]}`)
	req := httptest.NewRequest(http.MethodPatch, "/users/agent-assignments/"+agentID.String()+"/remove", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID.String()))
	req = withRouteParam(req, "agentId", agentID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRemoveResourcesBothListsEmpty(t *testing.T) {
	agentID := uuid.New()
	handler := RemoveResources(stubAssignmentService{
		removeErr: pkgerrors.New(pkgerrors.CodeValidation, "at least one of hrIds or candidateIds is required"),
	}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/users/agent-assignments/"+agentID.String()+"/remove", bytes.NewReader([]byte(`{"hrIds":[],"candidateIds":[]}`)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = withRouteParam(req, "agentId", agentID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestDeleteAssignmentSuccess(t *testing.T) {
	agentID := uuid.New()
	handler := DeleteAssignment(stubAssignmentService{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/users/agent-assignments/"+agentID.String(), nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = withRouteParam(req, "agentId", agentID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["status"] != "deleted" {
		t.Fatalf("expected deleted confirmation got %v", envelope.Data)
	}
}

func TestDeleteAssignmentNotFound(t *testing.T) {
	agentID := uuid.New()
	handler := DeleteAssignment(stubAssignmentService{
		deleteErr: pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found"),
	}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/users/agent-assignments/"+agentID.String(), nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = withRouteParam(req, "agentId", agentID.String())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

type stubAssignmentService struct {
	assignResp *assignments.AssignResult
	assignErr  error
	listResp   *assignments.ListResult
	listErr    error
	ownResp    *assignments.AssignmentDTO
	ownErr     error
	detailResp *assignments.AssignmentDetailDTO
	detailErr  error
	removeResp *assignments.AssignmentDetailDTO
	removeErr  error
	deleteErr  error
}

func (s stubAssignmentService) Assign(_ context.Context, _ assignments.Actor, _ assignments.AssignInput) (*assignments.AssignResult, error) {
	return s.assignResp, s.assignErr
}

func (s stubAssignmentService) List(_ context.Context, _ assignments.ListParams) (*assignments.ListResult, error) {
	return s.listResp, s.listErr
}

func (s stubAssignmentService) GetOwn(_ context.Context, _ uuid.UUID) (*assignments.AssignmentDTO, error) {
	return s.ownResp, s.ownErr
}

func (s stubAssignmentService) GetByAgent(_ context.Context, _ uuid.UUID) (*assignments.AssignmentDetailDTO, error) {
	return s.detailResp, s.detailErr
}

func (s stubAssignmentService) Remove(_ context.Context, _ assignments.Actor, _ uuid.UUID, _ assignments.RemoveInput) (*assignments.AssignmentDetailDTO, error) {
	return s.removeResp, s.removeErr
}

func (s stubAssignmentService) Delete(_ context.Context, _ assignments.Actor, _ uuid.UUID) error {
	return s.deleteErr
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}
