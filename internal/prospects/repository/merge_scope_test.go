package repository

import (
	"strings"
	"testing"
)

// Tables whose rows must survive a merge. The DELETE on the absorbed prospect
// cascades, so any table missing from the repoint list silently loses data.
func TestMergeRepointsEveryProspectChildTable(t *testing.T) {
	childTables := []string{
		"contact_requests",
		"session_registrations",
		"needs_analysis_requests",
		"prospect_notes",
		"progress_assessments",
	}

	for _, table := range childTables {
		found := false
		for _, stmt := range mergeRepointStatements {
			if strings.Contains(stmt, "UPDATE "+table+" SET prospect_id = $1 WHERE prospect_id = $2") {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("merge must repoint %s before deleting the absorbed prospect", table)
		}
	}
}
