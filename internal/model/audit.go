package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditEvent struct {
	ID     uuid.UUID `json:"id"`
	Entity string    `json:"entity"`
	Action string    `json:"action"`
	Key    string    `json:"key"`
	OldKey string    `json:"old_key,omitempty"`
	At     time.Time `json:"at"`
}

const (
	// Action types
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)
