package links

import (
	"testing"
)

func testLink(id, taskID, eventID string) Link {
	return Link{
		ID:        id,
		TaskID:    taskID,
		EventID:   eventID,
		CreatedAt: "2026-08-01T10:00:00Z",
		UpdatedAt: "2026-08-01T10:00:00Z",
	}
}

func TestRegistryInsertAndFind(t *testing.T) {
	r := NewRegistry()
	r.Insert(testLink("l1", "t1", "e1"))
	r.Insert(testLink("l2", "t1", "e2"))
	r.Insert(testLink("l3", "t2", "e1"))

	if got := r.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	forTask := r.Find(func(l Link) bool { return l.TaskID == "t1" })
	if len(forTask) != 2 {
		t.Fatalf("Find(task t1) returned %d links, want 2", len(forTask))
	}
	// Insertion order must be preserved.
	if forTask[0].ID != "l1" || forTask[1].ID != "l2" {
		t.Errorf("Find(task t1) order = %s, %s; want l1, l2", forTask[0].ID, forTask[1].ID)
	}

	all := r.Find(nil)
	if len(all) != 3 {
		t.Errorf("Find(nil) returned %d links, want 3", len(all))
	}
}

func TestRegistryFindByID(t *testing.T) {
	r := NewRegistry()
	r.Insert(testLink("l1", "t1", "e1"))

	if _, ok := r.FindByID("l1"); !ok {
		t.Error("FindByID(l1) not found")
	}
	if _, ok := r.FindByID("missing"); ok {
		t.Error("FindByID(missing) unexpectedly found")
	}
}

func TestRegistryFindByPair(t *testing.T) {
	r := NewRegistry()
	r.Insert(testLink("l1", "t1", "e1"))

	if l, ok := r.FindByPair("t1", "e1"); !ok || l.ID != "l1" {
		t.Errorf("FindByPair(t1, e1) = %v, %v; want l1, true", l.ID, ok)
	}
	if _, ok := r.FindByPair("t1", "e2"); ok {
		t.Error("FindByPair(t1, e2) unexpectedly found")
	}
}

func TestRegistryInsertIfAbsent(t *testing.T) {
	r := NewRegistry()

	if !r.InsertIfAbsent(testLink("l1", "t1", "e1")) {
		t.Fatal("first InsertIfAbsent returned false")
	}
	// Same pair under a different id must be rejected.
	if r.InsertIfAbsent(testLink("l2", "t1", "e1")) {
		t.Error("InsertIfAbsent accepted a duplicate pair")
	}
	if got := r.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestRegistryRemoveByID(t *testing.T) {
	r := NewRegistry()
	r.Insert(testLink("l1", "t1", "e1"))
	r.Insert(testLink("l2", "t2", "e2"))

	removed, ok := r.RemoveByID("l1")
	if !ok || removed.TaskID != "t1" {
		t.Fatalf("RemoveByID(l1) = %v, %v", removed, ok)
	}
	if got := r.Len(); got != 1 {
		t.Errorf("Len() after remove = %d, want 1", got)
	}
	if _, ok := r.RemoveByID("l1"); ok {
		t.Error("second RemoveByID(l1) unexpectedly succeeded")
	}
}

func TestRegistryRemoveByPair(t *testing.T) {
	r := NewRegistry()
	r.Insert(testLink("l1", "t1", "e1"))

	removed, ok := r.RemoveByPair("t1", "e1")
	if !ok || removed.ID != "l1" {
		t.Fatalf("RemoveByPair(t1, e1) = %v, %v", removed, ok)
	}
	if _, ok := r.RemoveByPair("t1", "e1"); ok {
		t.Error("second RemoveByPair unexpectedly succeeded")
	}
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()
	r.Insert(testLink("l1", "t1", "e1"))
	r.Insert(testLink("l2", "t2", "e2"))

	updated, ok := r.Replace("l1", func(l *Link) {
		l.Notes = "updated"
		l.UpdatedAt = "2026-08-02T10:00:00Z"
	})
	if !ok {
		t.Fatal("Replace(l1) not found")
	}
	if updated.Notes != "updated" || updated.UpdatedAt != "2026-08-02T10:00:00Z" {
		t.Errorf("Replace did not apply update: %+v", updated)
	}

	// Position in insertion order must be unchanged.
	all := r.Find(nil)
	if all[0].ID != "l1" || all[0].Notes != "updated" {
		t.Errorf("Replace moved or lost the record: %+v", all[0])
	}

	if _, ok := r.Replace("missing", func(l *Link) {}); ok {
		t.Error("Replace(missing) unexpectedly succeeded")
	}
}

func TestRegistryReplacePreservesIdentity(t *testing.T) {
	r := NewRegistry()
	r.Insert(testLink("l1", "t1", "e1"))

	updated, ok := r.Replace("l1", func(l *Link) {
		// A misbehaving update must not be able to change identity.
		l.ID = "other"
		l.TaskID = "other"
		l.EventID = "other"
		l.CreatedAt = "1970-01-01T00:00:00Z"
	})
	if !ok {
		t.Fatal("Replace(l1) not found")
	}
	if updated.ID != "l1" || updated.TaskID != "t1" || updated.EventID != "e1" {
		t.Errorf("Replace let identity fields change: %+v", updated)
	}
	if updated.CreatedAt != "2026-08-01T10:00:00Z" {
		t.Errorf("Replace let CreatedAt change: %s", updated.CreatedAt)
	}
}
