package audit

import (
	"strings"
	"testing"

	"groundwork/internal/constants"
	"groundwork/internal/database"
)

func setupAuditLogger(t *testing.T) *Logger {
	t.Helper()
	db, err := database.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	l := NewLogger(db)
	t.Cleanup(l.Stop)
	return l
}

// ============================================================================
// Log
// ============================================================================

func TestLogAndQuery(t *testing.T) {
	l := setupAuditLogger(t)

	if err := l.Log(constants.AuditActionLoginSuccess, "127.0.0.1", "user@example.com",
		LoginSuccessDetails{UserAgent: "test-agent"}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	entries, err := l.Query(QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Action != constants.AuditActionLoginSuccess {
		t.Errorf("expected action %s, got %s", constants.AuditActionLoginSuccess, e.Action)
	}
	if e.Actor != "user@example.com" {
		t.Errorf("expected actor email, got %q", e.Actor)
	}
	if e.Timestamp == 0 {
		t.Error("expected non-zero timestamp")
	}
	if e.EntryID == "" || !strings.Contains(e.EntryID, "-") {
		t.Errorf("expected UUID entry_id, got %q", e.EntryID)
	}

	details, ok := e.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("expected decoded details, got %T", e.Details)
	}
	if details["user_agent"] != "test-agent" {
		t.Errorf("expected user_agent in details, got %v", details)
	}
}

func TestLog_NilDetails(t *testing.T) {
	l := setupAuditLogger(t)

	if err := l.Log(constants.AuditActionLogout, "127.0.0.1", "user@example.com", nil); err != nil {
		t.Fatalf("Log with nil details failed: %v", err)
	}

	entries, _ := l.Query(QueryFilter{})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Details != nil {
		t.Errorf("expected nil details, got %v", entries[0].Details)
	}
}

func TestLog_InvalidActionRejected(t *testing.T) {
	l := setupAuditLogger(t)

	if err := l.Log("made_up_action", "127.0.0.1", "", nil); err == nil {
		t.Fatal("expected error for unknown action")
	}

	entries, _ := l.Query(QueryFilter{})
	if len(entries) != 0 {
		t.Errorf("invalid action must not be recorded, got %d entries", len(entries))
	}
}

func TestLog_EmptyActorAllowed(t *testing.T) {
	l := setupAuditLogger(t)

	// Anonymous events (failed logins, password resets) have no actor.
	if err := l.Log(constants.AuditActionLoginFailed, "203.0.113.7", "", LoginFailedDetails{
		AttemptedEmail: "ghost@example.com",
		Reason:         "AUTH_INVALID_CREDENTIALS",
	}); err != nil {
		t.Fatalf("Log with empty actor failed: %v", err)
	}
}

// ============================================================================
// Query Filters
// ============================================================================

func TestQuery_Filters(t *testing.T) {
	l := setupAuditLogger(t)

	l.Log(constants.AuditActionSignup, "127.0.0.1", "a@example.com", nil)
	l.Log(constants.AuditActionLoginSuccess, "127.0.0.1", "a@example.com", nil)
	l.Log(constants.AuditActionLoginSuccess, "127.0.0.1", "b@example.com", nil)

	byAction, err := l.Query(QueryFilter{Action: constants.AuditActionLoginSuccess})
	if err != nil {
		t.Fatalf("Query by action failed: %v", err)
	}
	if len(byAction) != 2 {
		t.Errorf("expected 2 login entries, got %d", len(byAction))
	}

	byActor, err := l.Query(QueryFilter{Actor: "a@example.com"})
	if err != nil {
		t.Fatalf("Query by actor failed: %v", err)
	}
	if len(byActor) != 2 {
		t.Errorf("expected 2 entries for actor a, got %d", len(byActor))
	}

	combined, err := l.Query(QueryFilter{
		Action: constants.AuditActionLoginSuccess,
		Actor:  "a@example.com",
	})
	if err != nil {
		t.Fatalf("combined Query failed: %v", err)
	}
	if len(combined) != 1 {
		t.Errorf("expected 1 combined match, got %d", len(combined))
	}
}

func TestQuery_InvalidActionRejected(t *testing.T) {
	l := setupAuditLogger(t)

	if _, err := l.Query(QueryFilter{Action: "nonsense"}); err == nil {
		t.Fatal("expected error for unknown action filter")
	}
}

func TestQuery_NewestFirstAndLimit(t *testing.T) {
	l := setupAuditLogger(t)

	for i := 0; i < 5; i++ {
		l.Log(constants.AuditActionNoteCreated, "127.0.0.1", "u@example.com", NoteDetails{NoteID: int64(i + 1)})
	}

	entries, err := l.Query(QueryFilter{Limit: 3})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].ID > entries[i-1].ID {
			t.Fatal("expected newest-first ordering")
		}
	}
}

func TestQuery_BeforeBound(t *testing.T) {
	l := setupAuditLogger(t)

	l.Log(constants.AuditActionSignup, "127.0.0.1", "u@example.com", nil)

	entries, _ := l.Query(QueryFilter{})
	ts := entries[0].Timestamp

	// A bound at or before the entry's timestamp excludes it.
	older, err := l.Query(QueryFilter{Before: ts})
	if err != nil {
		t.Fatalf("Query with before failed: %v", err)
	}
	if len(older) != 0 {
		t.Errorf("expected no entries before %d, got %d", ts, len(older))
	}

	newer, _ := l.Query(QueryFilter{Before: ts + 10})
	if len(newer) != 1 {
		t.Errorf("expected 1 entry with later bound, got %d", len(newer))
	}
}

// ============================================================================
// Size Cap
// ============================================================================

func TestEnforceSizeLimit_UnderCapUntouched(t *testing.T) {
	l := setupAuditLogger(t)

	for i := 0; i < 10; i++ {
		l.Log(constants.AuditActionSignup, "127.0.0.1", "u@example.com", nil)
	}
	l.enforceSizeLimit()

	entries, _ := l.Query(QueryFilter{Limit: constants.AuditMaxQueryLimit})
	if len(entries) != 10 {
		t.Errorf("expected 10 entries untouched below the cap, got %d", len(entries))
	}
}

func TestActions(t *testing.T) {
	actions := Actions()
	if len(actions) != len(validActions) {
		t.Fatalf("expected %d actions, got %d", len(validActions), len(actions))
	}
	for _, a := range actions {
		if !IsValidAction(a) {
			t.Errorf("Actions returned invalid action %q", a)
		}
	}
}
