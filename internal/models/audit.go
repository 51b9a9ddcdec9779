package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID          int64      `json:"id"`
	ActorUserID *uuid.UUID `json:"actor_user_id,omitempty"`
	ActorType   string     `json:"actor_type"` // user/system/internal
	Action      string     `json:"action"`
	EntityType  string     `json:"entity_type"`
	EntityID    string     `json:"entity_id,omitempty"`
	Meta        any        `json:"meta,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
