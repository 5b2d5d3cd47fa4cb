package database

import (
	"strings"
	"testing"
)

func TestStatements(t *testing.T) {
	stmts := Statements()
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(stmts))
	}

	wantPrefixes := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS tasks",
		"CREATE INDEX IF NOT EXISTS ix_tasks_user_id",
	}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(stmts[i], prefix) {
			t.Errorf("statement %d = %q, want prefix %q", i, stmts[i], prefix)
		}
	}
	if !strings.Contains(stmts[0], "users_email_key UNIQUE (email)") {
		t.Error("users table is missing the unique email constraint")
	}
	if !strings.Contains(stmts[1], "ON DELETE CASCADE") {
		t.Error("tasks.user_id is missing ON DELETE CASCADE")
	}
}
