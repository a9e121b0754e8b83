package pipe

import (
	"encoding/json"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := map[Status]string{
		StatusCreated:  "created",
		StatusWorking:  "working",
		StatusFinished: "finished",
		StatusErrored:  "errored",
		Status(9):      "status(9)",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("String() = %q, want %q", s.String(), want)
		}
	}
}

func TestStatus_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Status{"lower": StatusWorking})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"lower":"working"}` {
		t.Errorf("got %s", b)
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	if StatusCreated.IsTerminal() || StatusWorking.IsTerminal() {
		t.Error("created and working are not terminal")
	}
	if !StatusFinished.IsTerminal() || !StatusErrored.IsTerminal() {
		t.Error("finished and errored are terminal")
	}
}

func TestCanTransition(t *testing.T) {
	all := []Status{StatusCreated, StatusWorking, StatusFinished, StatusErrored}
	allowed := map[[2]Status]bool{
		{StatusCreated, StatusWorking}:  true,
		{StatusWorking, StatusFinished}: true,
		{StatusWorking, StatusErrored}:  true,
		{StatusCreated, StatusErrored}:  true,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			if got := canTransition(from, to); got != want {
				t.Errorf("canTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStatusCell_Advance(t *testing.T) {
	var calls int
	c := &statusCell{name: "p", hook: func(from, to Status) { calls++ }}

	if c.load() != StatusCreated {
		t.Fatalf("expected created, got %s", c.load())
	}
	if c.advance(StatusFinished) {
		t.Error("created -> finished must be refused")
	}
	if !c.advance(StatusWorking) || !c.advance(StatusErrored) {
		t.Fatal("created -> working -> errored must be accepted")
	}
	if c.advance(StatusWorking) || c.advance(StatusFinished) {
		t.Error("no transition may leave errored")
	}
	if calls != 2 {
		t.Errorf("expected 2 hook calls, got %d", calls)
	}
}
