package migrate

import "testing"

func TestRunRejectsEmptyDSN(t *testing.T) {
	if err := Run("", "up"); err == nil {
		t.Fatal("Run with empty DSN should return error")
	}
}

func TestRunRejectsBadDirection(t *testing.T) {
	for _, direction := range []string{"", "sideways", "UP", "Down"} {
		if err := Run("postgres://localhost/surgsim", direction); err == nil {
			t.Errorf("Run with direction %q should return error", direction)
		}
	}
}
