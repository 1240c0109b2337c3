// Package domain holds the prospect pipeline vocabulary shared by the
// prospects services and repository.
package domain

// Status is the position of a prospect in the sales pipeline. The ordering
// is fixed: a prospect only ever moves forward (escalation is monotonic).
type Status string

const (
	StatusLead        Status = "lead"
	StatusProspect    Status = "prospect"
	StatusQualified   Status = "qualified"
	StatusNegotiation Status = "negotiation"
	StatusCustomer    Status = "customer"
)

// statusRanks orders statuses by ascending intent. Unknown statuses rank 0,
// below lead, so a corrupted value never wins a merge.
var statusRanks = map[Status]int{
	StatusLead:        1,
	StatusProspect:    2,
	StatusQualified:   3,
	StatusNegotiation: 4,
	StatusCustomer:    5,
}

// Rank returns the priority rank of the status.
func (s Status) Rank() int {
	return statusRanks[s]
}

// IsValid reports whether s is a known pipeline status.
func (s Status) IsValid() bool {
	_, ok := statusRanks[s]
	return ok
}

// Max returns the higher-priority of the two statuses.
func Max(a, b Status) Status {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Escalate returns target if it outranks current, otherwise current.
// A prospect never moves backward in the pipeline.
func Escalate(current, target Status) Status {
	return Max(current, target)
}

// Priority is the follow-up priority of a prospect. Unlike Status it carries
// no ordering semantics in the ingestion rules.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Defaults applied when a prospect is created from a first touchpoint.
const (
	DefaultStatus   = StatusLead
	DefaultPriority = PriorityMedium
	DefaultSource   = "website"
)

// MergeSeparator is inserted between descriptions when two prospect records
// are consolidated, so no note text is lost.
const MergeSeparator = "--- Fusionné ---"
