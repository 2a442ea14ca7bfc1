package domain

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreate  Action = "CREATE"
	ActionUpdate  Action = "UPDATE"
	ActionDelete  Action = "DELETE"
	ActionConfirm Action = "CONFIRM"
	ActionUpload  Action = "UPLOAD"
)

// MaxLedgerEntries caps the operation-log ledger. The oldest entries are
// dropped after every append.
const MaxLedgerEntries = 1000

// OperationLog is one audit-trail entry. BeforeData is the prior record state
// (nil when the record did not exist), AfterData the new state (nil for
// deletions).
type OperationLog struct {
	ID         string `json:"id"`
	Timestamp  string `json:"timestamp"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	UserRole   string `json:"userRole"`
	Action     Action `json:"action"`
	Module     string `json:"module"`
	TargetType string `json:"targetType"`
	TargetID   string `json:"targetId"`
	TargetName string `json:"targetName"`
	Summary    string `json:"summary"`
	BeforeData any    `json:"beforeData,omitempty"`
	AfterData  any    `json:"afterData,omitempty"`
}

func NewOperationLog(actor Actor, action Action, module, targetType, targetID, targetName, summary string, before, after any) OperationLog {
	return OperationLog{
		ID:         "log_" + uuid.NewString(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		UserID:     actor.ID,
		UserName:   actor.Name,
		UserRole:   actor.Role,
		Action:     action,
		Module:     module,
		TargetType: targetType,
		TargetID:   targetID,
		TargetName: targetName,
		Summary:    summary,
		BeforeData: before,
		AfterData:  after,
	}
}

// LogFilter selects ledger entries; zero-valued fields match everything.
// StartDate and EndDate compare lexicographically against the RFC3339
// timestamp, both bounds inclusive.
type LogFilter struct {
	Module    string
	UserID    string
	Action    Action
	StartDate string
	EndDate   string
}

func (f LogFilter) Matches(entry OperationLog) bool {
	if f.Module != "" && entry.Module != f.Module {
		return false
	}
	if f.UserID != "" && entry.UserID != f.UserID {
		return false
	}
	if f.Action != "" && entry.Action != f.Action {
		return false
	}
	if f.StartDate != "" && entry.Timestamp < f.StartDate {
		return false
	}
	if f.EndDate != "" && entry.Timestamp > f.EndDate {
		return false
	}
	return true
}
