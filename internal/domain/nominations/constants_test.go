package nominations

import (
	"encoding/json"
	"testing"
)

func TestTransitionTable(t *testing.T) {
	allowed := map[transitionKey]Status{
		{StatusPending, ActionAccept}:    StatusAccepted,
		{StatusPending, ActionDecline}:   StatusDeclined,
		{StatusAccepted, ActionComplete}: StatusCompleted,
	}
	for _, from := range Statuses() {
		for _, action := range []Action{ActionAccept, ActionDecline, ActionComplete} {
			got, err := Transition(from, action)
			want, ok := allowed[transitionKey{from, action}]
			if ok {
				if err != nil || got != want {
					t.Fatalf("%s + %s: expected %s, got %s (%v)", from, action, want, got, err)
				}
				continue
			}
			if err == nil {
				t.Fatalf("%s + %s: expected invalid transition, got %s", from, action, got)
			}
		}
	}
}

func TestAvailableActionsOnlyForPending(t *testing.T) {
	if got := AvailableActions(StatusPending); len(got) != 2 || got[0] != ActionAccept || got[1] != ActionDecline {
		t.Fatalf("expected accept/decline for pending, got %v", got)
	}
	for _, s := range []Status{StatusAccepted, StatusDeclined, StatusCompleted} {
		if got := AvailableActions(s); len(got) != 0 {
			t.Fatalf("expected no actions for %s, got %v", s, got)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus(" pending "); err != nil || s != StatusPending {
		t.Fatalf("expected PENDING, got %q %v", s, err)
	}
	if _, err := ParseStatus("WHATEVER"); err == nil {
		t.Fatalf("expected unknown status error")
	}
}

func TestDecodeRejectsUnknownStatus(t *testing.T) {
	var n Nomination
	if err := json.Unmarshal([]byte(`{"id":"n1","nominationStatus":"ARCHIVED"}`), &n); err == nil {
		t.Fatalf("expected decode error for unknown status")
	}
	if err := json.Unmarshal([]byte(`{"id":"n1","nominationStatus":"ACCEPTED"}`), &n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.NominationStatus != StatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", n.NominationStatus)
	}
}
