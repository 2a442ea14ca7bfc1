package store

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/jinxingedu/kindersync/internal/domain"
)

var testActor = domain.Actor{ID: "u1", Name: "Teacher Wang", Role: "admin"}

func TestLedger_NewestFirst(t *testing.T) {
	s, _ := newTestStore()

	s.AppendLog(testActor, domain.ActionCreate, "students", "student", "s1", "Ming", "created student Ming", nil, domain.Record{"id": "s1"})
	s.AppendLog(testActor, domain.ActionUpdate, "students", "student", "s1", "Ming", "updated student Ming", domain.Record{"id": "s1"}, domain.Record{"id": "s1", "name": "Ming"})

	logs := s.QueryLogs(domain.LogFilter{})
	if len(logs) != 2 {
		t.Fatalf("got %d entries, want 2", len(logs))
	}
	if logs[0].Action != domain.ActionUpdate {
		t.Errorf("newest entry must come first, got %s", logs[0].Action)
	}
	if logs[1].Action != domain.ActionCreate {
		t.Errorf("oldest entry must come last, got %s", logs[1].Action)
	}
}

func TestLedger_CapDropsOldest(t *testing.T) {
	s, _ := newTestStore()

	for i := 0; i < domain.MaxLedgerEntries+5; i++ {
		id := fmt.Sprintf("s%d", i)
		s.AppendLog(testActor, domain.ActionCreate, "students", "student", id, id, "created student "+id, nil, domain.Record{"id": id})
	}

	logs := s.QueryLogs(domain.LogFilter{})
	if len(logs) != domain.MaxLedgerEntries {
		t.Fatalf("got %d entries, want cap of %d", len(logs), domain.MaxLedgerEntries)
	}

	// The newest append is at the head; the first five appends fell off.
	if logs[0].TargetID != fmt.Sprintf("s%d", domain.MaxLedgerEntries+4) {
		t.Errorf("head is %s, want the most recent append", logs[0].TargetID)
	}
	if logs[len(logs)-1].TargetID != "s5" {
		t.Errorf("tail is %s, want s5 after the oldest five dropped", logs[len(logs)-1].TargetID)
	}
}

func TestLedger_EntryFields(t *testing.T) {
	s, _ := newTestStore()

	before := domain.Record{"id": "s1", "name": "Ming"}
	after := domain.Record{"id": "s1", "name": "Ming", "class": "A"}
	s.AppendLog(testActor, domain.ActionUpdate, "students", "student", "s1", "Ming", "updated student Ming", before, after)

	entry := s.QueryLogs(domain.LogFilter{})[0]
	if entry.ID == "" || entry.Timestamp == "" {
		t.Errorf("entry must carry id and timestamp: %+v", entry)
	}
	if entry.UserID != "u1" || entry.UserName != "Teacher Wang" || entry.UserRole != "admin" {
		t.Errorf("actor fields wrong: %+v", entry)
	}
	if entry.BeforeData == nil || entry.AfterData == nil {
		t.Errorf("before/after snapshots missing: %+v", entry)
	}
}

func TestLedger_QueryFilters(t *testing.T) {
	s, mem := newTestStore()

	// Seed entries with controlled timestamps so the date range is testable.
	seed := []domain.OperationLog{
		{ID: "log_3", Timestamp: "2026-03-10T09:00:00Z", UserID: "u2", Action: domain.ActionDelete, Module: "staff"},
		{ID: "log_2", Timestamp: "2026-02-15T12:30:00Z", UserID: "u1", Action: domain.ActionUpdate, Module: "students"},
		{ID: "log_1", Timestamp: "2026-01-05T08:00:00Z", UserID: "u1", Action: domain.ActionCreate, Module: "students"},
	}
	raw, _ := json.Marshal(seed)
	if err := mem.Set(string(domain.KeyOperationLogs), raw); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		name   string
		filter domain.LogFilter
		want   []string
	}{
		{"all", domain.LogFilter{}, []string{"log_3", "log_2", "log_1"}},
		{"by module", domain.LogFilter{Module: "students"}, []string{"log_2", "log_1"}},
		{"by user", domain.LogFilter{UserID: "u2"}, []string{"log_3"}},
		{"by action", domain.LogFilter{Action: domain.ActionCreate}, []string{"log_1"}},
		{"date range", domain.LogFilter{StartDate: "2026-02-01", EndDate: "2026-02-28"}, []string{"log_2"}},
		{"open start", domain.LogFilter{EndDate: "2026-01-31"}, []string{"log_1"}},
		{"combined", domain.LogFilter{Module: "students", Action: domain.ActionUpdate}, []string{"log_2"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.QueryLogs(tc.filter)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tc.want))
			}
			for i, id := range tc.want {
				if got[i].ID != id {
					t.Errorf("entry %d is %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}
