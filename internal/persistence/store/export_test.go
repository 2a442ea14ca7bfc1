package store

import (
	"encoding/json"
	"testing"

	"github.com/jinxingedu/kindersync/internal/domain"
)

func TestExportAll(t *testing.T) {
	s, _ := newTestStore()

	s.Set(domain.KeyStudents, []domain.Record{{"id": "s1"}, {"id": "s2"}})
	s.Set(domain.KeyStaff, []domain.Record{{"id": "t1"}})

	raw, err := s.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}

	var dump map[string][]domain.Record
	if err := json.Unmarshal(raw, &dump); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if len(dump) != len(domain.RegisteredKeys()) {
		t.Errorf("got %d keys, want every registered key (%d)", len(dump), len(domain.RegisteredKeys()))
	}
	if len(dump["kt_students"]) != 2 {
		t.Errorf("kt_students: %v", dump["kt_students"])
	}
	if got := dump["kt_visitors"]; got == nil {
		t.Errorf("empty keys must export as [], not be omitted")
	}
}

func TestStats(t *testing.T) {
	s, _ := newTestStore()

	s.Set(domain.KeyStudents, []domain.Record{{"id": "s1"}, {"id": "s2"}, {"id": "s3"}})

	var students KeyStats
	for _, ks := range s.Stats() {
		if ks.Key == "kt_students" {
			students = ks
		}
	}
	if students.Count != 3 {
		t.Errorf("got count %d, want 3", students.Count)
	}
	if students.SizeBytes == 0 {
		t.Errorf("size must be non-zero for a populated key")
	}
}
