package repository

import (
	"strings"
	"testing"
)

func TestListAssessmentsQueryCoversEveryFilter(t *testing.T) {
	query := strings.ToLower(listAssessmentsQuery)

	requiredFragments := []string{
		"$1::uuid is null or mentor_id = $1",
		"$2::uuid is null or formation_id = $2",
		"$3::text is null or status = $3",
		"$4::timestamptz is null or assessed_at >= $4",
		"$5::timestamptz is null or assessed_at <= $5",
		"limit $6 offset $7",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected filter fragment %q to be present", fragment)
		}
	}
}

func TestAverageScoreQueryOnlyCountsCompleted(t *testing.T) {
	query := strings.ToLower(averageScoreByFormationQuery)

	if !strings.Contains(query, "status = 'completed'") {
		t.Fatal("average score must only consider completed assessments")
	}
	if !strings.Contains(query, "score is not null") {
		t.Fatal("average score must skip unscored assessments")
	}
	if !strings.Contains(query, "group by formation_id") {
		t.Fatal("average score must group by formation")
	}
}
