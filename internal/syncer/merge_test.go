package syncer

import (
	"testing"

	"github.com/jinxingedu/kindersync/internal/domain"
)

func ids(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID()
	}
	return out
}

func TestMergeByID_CloudWinsOnCollision(t *testing.T) {
	local := []domain.Record{{"id": "a", "name": "local"}}
	cloud := []domain.Record{{"id": "a", "name": "cloud"}}

	merged := MergeByID(local, cloud)
	if len(merged) != 1 {
		t.Fatalf("got %d records, want 1", len(merged))
	}
	if merged[0]["name"] != "cloud" {
		t.Errorf("cloud must win the collision: %v", merged[0])
	}
}

func TestMergeByID_Union(t *testing.T) {
	local := []domain.Record{{"id": "a"}, {"id": "b"}}
	cloud := []domain.Record{{"id": "b"}, {"id": "c"}, {"id": "d"}}

	merged := MergeByID(local, cloud)
	got := ids(merged)
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s, want %s (local order first, cloud-only appended)", i, got[i], want[i])
		}
	}
}

func TestMergeByID_EmptySides(t *testing.T) {
	cloud := []domain.Record{{"id": "x"}}

	if merged := MergeByID(nil, cloud); len(merged) != 1 {
		t.Errorf("empty local: got %v", merged)
	}
	if merged := MergeByID(cloud, nil); len(merged) != 1 {
		t.Errorf("empty cloud: got %v", merged)
	}
	if merged := MergeByID(nil, nil); len(merged) != 0 {
		t.Errorf("both empty: got %v", merged)
	}
}

func TestMergeByID_NeverShrinks(t *testing.T) {
	local := []domain.Record{{"id": "a"}, {"id": "b"}, {"id": "c"}}
	cloud := []domain.Record{{"id": "b"}}

	merged := MergeByID(local, cloud)
	if len(merged) < len(local) || len(merged) < len(cloud) {
		t.Errorf("merge shrank: local=%d cloud=%d merged=%d", len(local), len(cloud), len(merged))
	}
}
