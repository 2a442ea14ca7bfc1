package domain

import (
	"time"

	"github.com/google/uuid"
)

type PendingStatus string

const (
	StatusPending   PendingStatus = "PENDING"
	StatusConfirmed PendingStatus = "CONFIRMED"
	StatusCancelled PendingStatus = "CANCELLED"
)

// PendingUpload stages a record awaiting human confirmation. It transitions
// from PENDING to exactly one of CONFIRMED or CANCELLED; terminal states never
// transition again.
type PendingUpload struct {
	ID        string        `json:"id"`
	Module    string        `json:"module"`
	Type      string        `json:"type"`
	Data      Record        `json:"data"`
	CreatedAt string        `json:"createdAt"`
	CreatedBy string        `json:"createdBy"`
	Status    PendingStatus `json:"status"`
}

func NewPendingUpload(module, recordType string, data Record, createdBy string) PendingUpload {
	return PendingUpload{
		ID:        "pending_" + uuid.NewString(),
		Module:    module,
		Type:      recordType,
		Data:      data,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		CreatedBy: createdBy,
		Status:    StatusPending,
	}
}
