package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/talentbridgehq/talentbridge-backend/api/middleware"
	"github.com/talentbridgehq/talentbridge-backend/api/responses"
	"github.com/talentbridgehq/talentbridge-backend/api/validators"
	"github.com/talentbridgehq/talentbridge-backend/internal/assignments"
	pkgerrors "github.com/talentbridgehq/talentbridge-backend/pkg/errors"
	"github.com/talentbridgehq/talentbridge-backend/pkg/logger"
	"github.com/talentbridgehq/talentbridge-backend/pkg/pagination"
)

type assignRequest struct {
	AgentID      string   `json:"agentId" validate:"required,uuid"`
	HRIDs        []string `json:"hrIds" validate:"dive,uuid"`
	CandidateIDs []string `json:"candidateIds" validate:"dive,uuid"`
	Notes        *string  `json:"notes,omitempty"`
}

type removeRequest struct {
	HRIDs        []string `json:"hrIds" validate:"dive,uuid"`
	CandidateIDs []string `json:"candidateIds" validate:"dive,uuid"`
}

// AssignResources assigns HR users and candidates to an agent, revoking them
// from any other agent that held them.
func AssignResources(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agentID, err := uuid.Parse(payload.AgentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid agent id"))
			return
		}
		hrIDs, err := parseUUIDList(payload.HRIDs, "hrIds")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		candidateIDs, err := parseUUIDList(payload.CandidateIDs, "candidateIds")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Assign(r.Context(), actor, assignments.AssignInput{
			AgentID:      agentID,
			HRIDs:        hrIDs,
			CandidateIDs: candidateIDs,
			Notes:        payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ListAssignments pages through every assignment with details expanded.
func ListAssignments(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), assignments.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetOwnAssignment returns the caller's assignment, or an empty default when
// none exists yet.
func GetOwnAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetOwn(r.Context(), actor.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// GetAssignment returns the detail-expanded assignment for one agent.
func GetAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		agentID, err := agentIDFromRoute(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetByAgent(r.Context(), agentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// RemoveResources strips the named HR users and candidates from an agent's
// assignment.
func RemoveResources(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agentID, err := agentIDFromRoute(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload removeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hrIDs, err := parseUUIDList(payload.HRIDs, "hrIds")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		candidateIDs, err := parseUUIDList(payload.CandidateIDs, "candidateIds")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Remove(r.Context(), actor, agentID, assignments.RemoveInput{
			HRIDs:        hrIDs,
			CandidateIDs: candidateIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// DeleteAssignment removes an agent's assignment entirely.
func DeleteAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agentID, err := agentIDFromRoute(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actor, agentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func actorFromContext(r *http.Request) (assignments.Actor, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return assignments.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return assignments.Actor{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return assignments.Actor{
		ID:        id,
		IPAddress: middleware.CallerIPFromContext(r.Context()),
		UserAgent: middleware.UserAgentFromContext(r.Context()),
	}, nil
}

func agentIDFromRoute(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "agentId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid agent id")
	}
	return id, nil
}

func parseUUIDList(values []string, field string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id").WithDetails(map[string]any{"field": field, "value": value})
		}
		out = append(out, id)
	}
	return out, nil
}
