package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/talentbridgehq/talentbridge-backend/pkg/db/types"
	"github.com/talentbridgehq/talentbridge-backend/pkg/enums"
)

// AuditLog is an append-only record of a mutation. Rows are never updated or
// deleted by the platform.
type AuditLog struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ActorID         uuid.UUID         `gorm:"column:actor_id;type:uuid;not null;index"`
	Action          enums.AuditAction `gorm:"column:action;type:text;not null"`
	EntityType      string            `gorm:"column:entity_type;type:text;not null;index:idx_audit_logs_entity"`
	EntityID        uuid.UUID         `gorm:"column:entity_id;type:uuid;not null;index:idx_audit_logs_entity"`
	Before          dbtypes.JSONMap   `gorm:"column:before;type:jsonb"`
	After           dbtypes.JSONMap   `gorm:"column:after;type:jsonb"`
	Metadata        dbtypes.JSONMap   `gorm:"column:metadata;type:jsonb"`
	IPAddress       string            `gorm:"column:ip_address;type:text"`
	UserAgent       string            `gorm:"column:user_agent;type:text"`
	BusinessProcess string            `gorm:"column:business_process;type:text;not null;index"`
	RiskLevel       enums.RiskLevel   `gorm:"column:risk_level;type:text;not null;default:low"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
}
