package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/talentbridgehq/talentbridge-backend/pkg/db/models"
	dbtypes "github.com/talentbridgehq/talentbridge-backend/pkg/db/types"
	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
	pkgerrors "github.com/talentbridgehq/talentbridge-backend/pkg/errors"
)

type stubAuditRepo struct {
	rows      []models.AuditLog
	createErr error
	listErr   error
}

func (s *stubAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.rows = append(s.rows, *entry)
	return nil
}

func (s *stubAuditRepo) ListByEntity(_ context.Context, entityType string, entityID uuid.UUID, _ int) ([]models.AuditLog, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.AuditLog
	for _, row := range s.rows {
		if row.EntityType == entityType && row.EntityID == entityID {
			out = append(out, row)
		}
	}
	return out, nil
}

func validEntry() Entry {
	return Entry{
		ActorID:         uuid.New(),
		Action:          enums.AuditActionUpdate,
		EntityType:      EntityTypeAgentAssignment,
		EntityID:        uuid.New(),
		Before:          dbtypes.JSONMap{"status": "active"},
		After:           dbtypes.JSONMap{"status": "inactive"},
		Metadata:        dbtypes.JSONMap{"reason": "resource_reassignment"},
		BusinessProcess: BusinessProcessAssignment,
	}
}

func TestNewRecorderRequiresRepo(t *testing.T) {
	if _, err := NewRecorder(nil, nil); err == nil {
		t.Fatal("expected error creating recorder without repo")
	}
}

func TestRecordPersistsEntry(t *testing.T) {
	repo := &stubAuditRepo{}
	rec, err := NewRecorder(repo, nil)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	entry := validEntry()
	if err := rec.Record(context.Background(), entry); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(repo.rows))
	}

	row := repo.rows[0]
	if row.ActorID != entry.ActorID {
		t.Fatalf("actor mismatch: %s", row.ActorID)
	}
	if row.BusinessProcess != BusinessProcessAssignment {
		t.Fatalf("business process mismatch: %s", row.BusinessProcess)
	}
	if row.RiskLevel != enums.RiskLevelLow {
		t.Fatalf("expected low risk default, got %s", row.RiskLevel)
	}
	if row.Metadata["reason"] != "resource_reassignment" {
		t.Fatalf("metadata not carried: %v", row.Metadata)
	}
}

func TestRecordValidation(t *testing.T) {
	rec, err := NewRecorder(&stubAuditRepo{}, nil)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	cases := map[string]func(*Entry){
		"missing actor":  func(e *Entry) { e.ActorID = uuid.Nil },
		"invalid action": func(e *Entry) { e.Action = "purge" },
		"missing entity": func(e *Entry) { e.EntityID = uuid.Nil },
	}
	for name, mutate := range cases {
		entry := validEntry()
		mutate(&entry)
		gotErr := rec.Record(context.Background(), entry)
		if gotErr == nil {
			t.Fatalf("%s: expected error", name)
		}
		if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", name, gotErr)
		}
	}
}

func TestRecordDependencyError(t *testing.T) {
	rec, err := NewRecorder(&stubAuditRepo{createErr: errors.New("boom")}, nil)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	gotErr := rec.Record(context.Background(), validEntry())
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}

func TestTrailFiltersByEntity(t *testing.T) {
	repo := &stubAuditRepo{}
	rec, err := NewRecorder(repo, nil)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	entry := validEntry()
	if err := rec.Record(context.Background(), entry); err != nil {
		t.Fatalf("record: %v", err)
	}
	other := validEntry()
	if err := rec.Record(context.Background(), other); err != nil {
		t.Fatalf("record: %v", err)
	}

	rows, err := rec.Trail(context.Background(), EntityTypeAgentAssignment, entry.EntityID, 0)
	if err != nil {
		t.Fatalf("trail: %v", err)
	}
	if len(rows) != 1 || rows[0].EntityID != entry.EntityID {
		t.Fatalf("expected only matching rows, got %+v", rows)
	}
}
