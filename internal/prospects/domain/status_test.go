package domain

import "testing"

func TestStatusRankOrdering(t *testing.T) {
	ordered := []Status{StatusLead, StatusProspect, StatusQualified, StatusNegotiation, StatusCustomer}

	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Fatalf("expected %q to outrank %q", ordered[i], ordered[i-1])
		}
	}
}

func TestEscalateNeverDowngrades(t *testing.T) {
	if got := Escalate(StatusCustomer, StatusLead); got != StatusCustomer {
		t.Fatalf("expected customer to remain customer, got %q", got)
	}
	if got := Escalate(StatusQualified, StatusProspect); got != StatusQualified {
		t.Fatalf("expected qualified to remain qualified, got %q", got)
	}
}

func TestEscalateMovesForward(t *testing.T) {
	if got := Escalate(StatusLead, StatusProspect); got != StatusProspect {
		t.Fatalf("expected lead to escalate to prospect, got %q", got)
	}
	if got := Escalate(StatusProspect, StatusQualified); got != StatusQualified {
		t.Fatalf("expected prospect to escalate to qualified, got %q", got)
	}
}

func TestUnknownStatusRanksBelowLead(t *testing.T) {
	if Status("garbage").Rank() >= StatusLead.Rank() {
		t.Fatal("unknown status must rank below lead")
	}
	if got := Max(StatusLead, Status("garbage")); got != StatusLead {
		t.Fatalf("expected lead to win over unknown status, got %q", got)
	}
}
