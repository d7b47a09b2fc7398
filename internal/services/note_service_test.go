package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"groundwork/internal/auth"
	"groundwork/internal/constants"
	"groundwork/internal/database"
	"groundwork/internal/logger"
)

// setupNoteService returns the service plus two user IDs for isolation tests.
func setupNoteService(t *testing.T) (*NoteService, int64, int64) {
	t.Helper()
	db, err := database.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := auth.NewStore(db, 3, 15*time.Minute, time.Hour)
	alice, err := store.CreateUser("alice@example.com", "Alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	bob, err := store.CreateUser("bob@example.com", "Bob", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	return NewNoteService(db, logger.New("error")), alice.ID, bob.ID
}

func TestNoteCreateAndGet(t *testing.T) {
	svc, alice, _ := setupNoteService(t)

	created, err := svc.Create(alice, "Groceries", "milk, eggs")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected non-zero note ID")
	}
	if created.CreatedAt == 0 || created.UpdatedAt == 0 {
		t.Error("expected timestamps set")
	}

	got, err := svc.Get(alice, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "Groceries" || got.Body != "milk, eggs" {
		t.Errorf("unexpected note content: %+v", got)
	}
}

func TestNoteValidation(t *testing.T) {
	svc, alice, _ := setupNoteService(t)

	if _, err := svc.Create(alice, "", "body"); !errors.Is(err, ErrNoteTitleMissing) {
		t.Errorf("expected ErrNoteTitleMissing, got %v", err)
	}
	if _, err := svc.Create(alice, strings.Repeat("t", constants.MaxNoteTitleLength+1), ""); !errors.Is(err, ErrNoteTitleTooLong) {
		t.Errorf("expected ErrNoteTitleTooLong, got %v", err)
	}
	if _, err := svc.Create(alice, "ok", strings.Repeat("b", constants.MaxNoteBodyBytes+1)); !errors.Is(err, ErrNoteBodyTooLarge) {
		t.Errorf("expected ErrNoteBodyTooLarge, got %v", err)
	}

	// Boundary values are accepted.
	if _, err := svc.Create(alice, strings.Repeat("t", constants.MaxNoteTitleLength),
		strings.Repeat("b", constants.MaxNoteBodyBytes)); err != nil {
		t.Errorf("expected boundary-sized note to be accepted, got %v", err)
	}
}

func TestNoteOwnerIsolation(t *testing.T) {
	svc, alice, bob := setupNoteService(t)

	note, err := svc.Create(alice, "Private", "alice only")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Get(bob, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound for other user's Get, got %v", err)
	}
	if _, err := svc.Update(bob, note.ID, "Hijacked", ""); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound for other user's Update, got %v", err)
	}
	if err := svc.Delete(bob, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound for other user's Delete, got %v", err)
	}

	// The owner still sees the untouched note.
	got, err := svc.Get(alice, note.ID)
	if err != nil {
		t.Fatalf("owner Get failed: %v", err)
	}
	if got.Title != "Private" {
		t.Errorf("note modified through another user: %+v", got)
	}
}

func TestNoteUpdate(t *testing.T) {
	svc, alice, _ := setupNoteService(t)

	note, _ := svc.Create(alice, "Draft", "v1")

	updated, err := svc.Update(alice, note.ID, "Final", "v2")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Final" || updated.Body != "v2" {
		t.Errorf("unexpected content after update: %+v", updated)
	}
	if updated.CreatedAt != note.CreatedAt {
		t.Error("created_at must not change on update")
	}

	if _, err := svc.Update(alice, 99999, "X", ""); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound for missing note, got %v", err)
	}
}

func TestNoteDelete(t *testing.T) {
	svc, alice, _ := setupNoteService(t)

	note, _ := svc.Create(alice, "Ephemeral", "")

	if err := svc.Delete(alice, note.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(alice, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound after delete, got %v", err)
	}
	if err := svc.Delete(alice, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound for double delete, got %v", err)
	}
}

func TestNoteListPagination(t *testing.T) {
	svc, alice, bob := setupNoteService(t)

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(alice, "note", ""); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	// Another user's notes must not leak into the listing or the total.
	svc.Create(bob, "bob note", "")

	notes, total, err := svc.List(alice, 2, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("expected page of 2, got %d", len(notes))
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}

	notes, _, err = svc.List(alice, 10, 4)
	if err != nil {
		t.Fatalf("List with offset failed: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("expected 1 note at offset 4, got %d", len(notes))
	}

	// Limit zero falls back to the default page size.
	notes, _, err = svc.List(alice, 0, 0)
	if err != nil {
		t.Fatalf("List with zero limit failed: %v", err)
	}
	if len(notes) != 5 {
		t.Errorf("expected all 5 notes under default page size, got %d", len(notes))
	}

	// Oversized limits are capped rather than rejected.
	if _, _, err := svc.List(alice, constants.MaxPageSize*10, 0); err != nil {
		t.Fatalf("List with oversized limit failed: %v", err)
	}
}

func TestNoteListOrder(t *testing.T) {
	svc, alice, _ := setupNoteService(t)

	first, _ := svc.Create(alice, "first", "")
	second, _ := svc.Create(alice, "second", "")

	notes, _, err := svc.List(alice, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	// Same updated_at second: the id tiebreaker puts the newest first.
	if notes[0].ID != second.ID || notes[1].ID != first.ID {
		t.Errorf("expected newest-first order, got IDs %d, %d", notes[0].ID, notes[1].ID)
	}
}
