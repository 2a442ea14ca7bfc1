package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/jinxingedu/kindersync/internal/domain"
	"github.com/jinxingedu/kindersync/internal/infrastructure/logging"
)

func newReconcileFixture() (*Coordinator, *fakeLocal, *fakeMirror) {
	local := newFakeLocal()
	mirror := newFakeMirror()
	c := New(local, mirror, logging.NewNop(), time.Hour, nil)
	return c, local, mirror
}

func TestReconcile_BothEmpty(t *testing.T) {
	c, local, mirror := newReconcileFixture()
	defer c.Close()

	results := c.Reconcile(context.Background(), []domain.StorageKey{domain.KeyStudents})

	if results[0].Outcome != "skipped" {
		t.Errorf("got outcome %q, want skipped", results[0].Outcome)
	}
	if mirror.uploadCount(domain.KeyStudents) != 0 {
		t.Errorf("nothing to upload for empty replicas")
	}
	if local.synced != 1 {
		t.Errorf("a full pass must still mark the store synced")
	}
}

func TestReconcile_BootstrapsEmptyCloud(t *testing.T) {
	c, local, mirror := newReconcileFixture()
	defer c.Close()

	local.data[domain.KeyStudents] = []domain.Record{{"id": "s1"}, {"id": "s2"}}

	results := c.Reconcile(context.Background(), []domain.StorageKey{domain.KeyStudents})

	if results[0].Outcome != "bootstrapped" {
		t.Errorf("got outcome %q, want bootstrapped", results[0].Outcome)
	}
	if got := mirror.cloud[domain.KeyStudents]; len(got) != 2 {
		t.Errorf("cloud not bootstrapped from local: %v", got)
	}
	if _, ok := local.replaced[domain.KeyStudents]; ok {
		t.Errorf("bootstrap must not rewrite the local array")
	}
}

func TestReconcile_AdoptsCloudOnEmptyLocal(t *testing.T) {
	c, local, mirror := newReconcileFixture()
	defer c.Close()

	mirror.cloud[domain.KeyStudents] = []domain.Record{{"id": "s1"}}

	results := c.Reconcile(context.Background(), []domain.StorageKey{domain.KeyStudents})

	if results[0].Outcome != "merged" {
		t.Errorf("got outcome %q, want merged", results[0].Outcome)
	}
	if got := local.replaced[domain.KeyStudents]; len(got) != 1 {
		t.Errorf("cloud data not written back locally: %v", got)
	}
	if mirror.uploadCount(domain.KeyStudents) != 0 {
		t.Errorf("nothing new locally, must not re-upload")
	}
}

func TestReconcile_MergeConflictCloudWins(t *testing.T) {
	c, local, mirror := newReconcileFixture()
	defer c.Close()

	local.data[domain.KeyStudents] = []domain.Record{{"id": "s1", "name": "local"}}
	mirror.cloud[domain.KeyStudents] = []domain.Record{{"id": "s1", "name": "cloud"}}

	c.Reconcile(context.Background(), []domain.StorageKey{domain.KeyStudents})

	got := local.replaced[domain.KeyStudents]
	if len(got) != 1 || got[0]["name"] != "cloud" {
		t.Errorf("cloud copy must win per id: %v", got)
	}
	if mirror.uploadCount(domain.KeyStudents) != 0 {
		t.Errorf("identical id sets must not trigger a re-upload")
	}
}

func TestReconcile_ReuploadsWhenLocalContributes(t *testing.T) {
	c, local, mirror := newReconcileFixture()
	defer c.Close()

	local.data[domain.KeyStudents] = []domain.Record{{"id": "s1"}, {"id": "s2"}}
	mirror.cloud[domain.KeyStudents] = []domain.Record{{"id": "s2"}, {"id": "s3"}}

	results := c.Reconcile(context.Background(), []domain.StorageKey{domain.KeyStudents})

	if results[0].Outcome != "merged_reuploaded" {
		t.Errorf("got outcome %q, want merged_reuploaded", results[0].Outcome)
	}
	if got := local.replaced[domain.KeyStudents]; len(got) != 3 {
		t.Errorf("merged array must hold the union: %v", got)
	}
	if mirror.uploadCount(domain.KeyStudents) != 1 {
		t.Errorf("cloud missing local ids must be re-uploaded")
	}
	if got := mirror.cloud[domain.KeyStudents]; len(got) != 3 {
		t.Errorf("cloud must converge to the union: %v", got)
	}
}

func TestUploadAll(t *testing.T) {
	c, local, mirror := newReconcileFixture()
	defer c.Close()

	local.data[domain.KeyStudents] = []domain.Record{{"id": "s1"}}
	local.data[domain.KeyStaff] = []domain.Record{{"id": "t1"}, {"id": "t2"}}

	results := c.UploadAll(context.Background())

	if len(results) != len(domain.RegisteredKeys()) {
		t.Fatalf("got %d results, want one per registered key", len(results))
	}

	byKey := make(map[string]UploadResult, len(results))
	for _, res := range results {
		byKey[res.Key] = res
	}
	if res := byKey["kt_students"]; res.Skipped || res.Count != 1 || res.Error != "" {
		t.Errorf("kt_students: %+v", res)
	}
	if res := byKey["kt_staff"]; res.Count != 2 {
		t.Errorf("kt_staff: %+v", res)
	}
	if res := byKey["kt_visitors"]; !res.Skipped {
		t.Errorf("empty key must be skipped: %+v", res)
	}

	if mirror.uploadCount(domain.KeyStudents) != 1 || mirror.uploadCount(domain.KeyStaff) != 1 {
		t.Errorf("uploads: %v", mirror.uploads)
	}
	if local.synced != 1 {
		t.Errorf("UploadAll must mark the store synced")
	}
}
