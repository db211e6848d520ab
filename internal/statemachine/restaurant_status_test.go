package statemachine

import (
	"errors"
	"testing"

	"github.com/moritahrk/tabememo/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    models.RestaurantStatus
		to      models.RestaurantStatus
		trigger Trigger
		wantErr bool
	}{
		{"first visit flips want to went", models.StatusWant, models.StatusWent, TriggerFirstVisit, false},
		{"reset flips went back to want", models.StatusWent, models.StatusWant, TriggerReset, false},
		{"reset cannot move want forward", models.StatusWant, models.StatusWent, TriggerReset, true},
		{"first visit cannot move went back", models.StatusWent, models.StatusWant, TriggerFirstVisit, true},
		{"no self transition on want", models.StatusWant, models.StatusWant, TriggerReset, true},
		{"no self transition on went", models.StatusWent, models.StatusWent, TriggerFirstVisit, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanTransition(tc.from, tc.to, tc.trigger)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	if got := StatusFor(0); got != models.StatusWant {
		t.Fatalf("StatusFor(0) = %q, want %q", got, models.StatusWant)
	}
	if got := StatusFor(1); got != models.StatusWent {
		t.Fatalf("StatusFor(1) = %q, want %q", got, models.StatusWent)
	}
	if got := StatusFor(42); got != models.StatusWent {
		t.Fatalf("StatusFor(42) = %q, want %q", got, models.StatusWent)
	}
}

func TestCheckConsistency(t *testing.T) {
	if err := CheckConsistency(models.StatusWant, 0); err != nil {
		t.Fatalf("want with 0 visits should be consistent: %v", err)
	}
	if err := CheckConsistency(models.StatusWent, 3); err != nil {
		t.Fatalf("went with 3 visits should be consistent: %v", err)
	}
	if err := CheckConsistency(models.StatusWent, 0); err == nil {
		t.Fatal("went with 0 visits should be inconsistent")
	}
	if err := CheckConsistency(models.StatusWant, 1); err == nil {
		t.Fatal("want with 1 visit should be inconsistent")
	}
}

func TestTransitionsTableIsClosed(t *testing.T) {
	// Every table entry must itself pass CanTransition.
	for _, tr := range Transitions() {
		if err := CanTransition(tr.From, tr.To, tr.Trigger); err != nil {
			t.Fatalf("table entry %+v rejected: %v", tr, err)
		}
	}
}
