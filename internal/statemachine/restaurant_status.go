package statemachine

import (
	"errors"
	"fmt"

	"github.com/moritahrk/tabememo/internal/models"
)

// Trigger identifies the event that moves a restaurant between states.
type Trigger string

const (
	// TriggerFirstVisit fires when the first visit of a restaurant is created.
	TriggerFirstVisit Trigger = "first_visit"
	// TriggerReset fires when all visits of a restaurant are removed, either
	// through the explicit reset action or by deleting the last visit.
	TriggerReset Trigger = "reset"
)

// Transition is one permitted state change and the trigger allowed to cause it.
type Transition struct {
	From    models.RestaurantStatus
	To      models.RestaurantStatus
	Trigger Trigger
}

var transitions = []Transition{
	{From: models.StatusWant, To: models.StatusWent, Trigger: TriggerFirstVisit},
	{From: models.StatusWent, To: models.StatusWant, Trigger: TriggerReset},
}

type transitionKey struct {
	From    models.RestaurantStatus
	To      models.RestaurantStatus
	Trigger Trigger
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(transitions))
	for _, t := range transitions {
		m[transitionKey{t.From, t.To, t.Trigger}] = true
	}
	return m
}()

var ErrInvalidTransition = errors.New("invalid status transition")

// CanTransition reports whether trigger may move a restaurant from one
// status to the other.
func CanTransition(from, to models.RestaurantStatus, trigger Trigger) error {
	if transitionMap[transitionKey{from, to, trigger}] {
		return nil
	}
	return fmt.Errorf("%w: %s → %s on %q", ErrInvalidTransition, from, to, trigger)
}

// StatusFor returns the status a restaurant with the given visit count must
// carry.
func StatusFor(visitCount int64) models.RestaurantStatus {
	if visitCount > 0 {
		return models.StatusWent
	}
	return models.StatusWant
}

// CheckConsistency verifies the stored status against the visit count. The
// services call this inside every transaction that changes either side.
func CheckConsistency(status models.RestaurantStatus, visitCount int64) error {
	if want := StatusFor(visitCount); status != want {
		return fmt.Errorf("status %q inconsistent with %d visits (expected %q)", status, visitCount, want)
	}
	return nil
}

// Transitions returns the full transition table.
func Transitions() []Transition {
	return transitions
}
