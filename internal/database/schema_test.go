package database

import (
	"os"
	"strings"
	"testing"
)

// Leaving a group hard-deletes the membership row while expenses,
// splits, and settlements keep referencing the departed member's id.
// Those columns must therefore stay plain UUIDs; a foreign key to
// group_members would make every leave fail for members with history.
func TestMemberHistoryColumnsCarryNoForeignKey(t *testing.T) {
	schema, err := os.ReadFile("../../migrations/001_init.sql")
	if err != nil {
		t.Fatalf("failed to read schema: %v", err)
	}

	historyColumns := []string{
		"created_by",
		"paid_by",
		"group_member_id",
		"from_member_id",
		"to_member_id",
	}

	for _, line := range strings.Split(string(schema), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		for _, col := range historyColumns {
			if strings.HasPrefix(trimmed, col) && strings.Contains(trimmed, "REFERENCES group_members") {
				t.Errorf("column %s must not reference group_members: %q", col, trimmed)
			}
		}
	}
}
