package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// State is the workflow position of an order. Transitions are driven by the
// Order methods; State itself only names and validates positions.
//
// State transitions:
//
//	PendingWorkshopInvitations ──(quorum, ≥1 accept)──> AwaitingStageConfirmations ──(all stages confirmed)──> Completed
//	          │                                                    │
//	          ├──(all declined, expiry)──> Cancelled <──(cancel)───┘
//	          └──(cancel)────────────────> Cancelled
//
// Completed and Cancelled are terminal. The integer values are persisted, so
// existing constants must keep their positions.
type State int

const (
	// Unknown represents an invalid or undefined state.
	// This value (0) helps catch uninitialized State values.
	Unknown State = iota

	// PendingWorkshopInvitations is the initial state. The order waits for
	// every invited workshop to accept or decline.
	PendingWorkshopInvitations

	// AwaitingStageConfirmations is reached once all invitations were
	// answered and at least one workshop accepted. Accepting workshops mark
	// stages and the commissioner confirms them.
	AwaitingStageConfirmations

	// Completed is terminal: every declared stage was confirmed.
	Completed

	// Cancelled is terminal: the order was cancelled by a party, every
	// workshop declined, or the invitations expired.
	Cancelled
)

func getStateStrings() map[State]string {
	return map[State]string{
		Unknown:                    "Unknown",
		PendingWorkshopInvitations: "PendingWorkshopInvitations",
		AwaitingStageConfirmations: "AwaitingStageConfirmations",
		Completed:                  "Completed",
		Cancelled:                  "Cancelled",
	}
}

func getValidStateStrings() map[State]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[State]string{
		PendingWorkshopInvitations: "PendingWorkshopInvitations",
		AwaitingStageConfirmations: "AwaitingStageConfirmations",
		Completed:                  "Completed",
		Cancelled:                  "Cancelled",
	}
}

// Validate accepts the four workflow states and rejects Unknown and any
// other value, e.g. one read from a corrupted row.
func (s State) Validate() error {
	if _, ok := getValidStateStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("state is invalid", fmt.Errorf("%d is not a valid state", s))
	}
	return nil
}

// String returns the state name used in events and the projection, or
// "Unknown" for invalid values.
func (s State) String() string {
	if str, ok := getStateStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ParseState is the inverse of String for valid states.
func ParseState(s string) (State, error) {
	for state, str := range getValidStateStrings() {
		if str == s {
			return state, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("state is invalid", fmt.Errorf("%q is not a valid state", s))
}

// Party identifies who issued a cancellation.
type Party int

const (
	// NoParty is the zero value; an order that was never cancelled carries it.
	NoParty Party = iota

	// PartyCommissioner is the commissioner who created the order.
	PartyCommissioner

	// PartyWorkshop is one of the invited workshops.
	PartyWorkshop

	// PartySystem cancels on its own: all workshops declined or the
	// invitations expired.
	PartySystem
)

func getPartyStrings() map[Party]string {
	return map[Party]string{
		NoParty:           "",
		PartyCommissioner: "Commissioner",
		PartyWorkshop:     "Workshop",
		PartySystem:       "System",
	}
}

// String returns the party name carried by OrderCancelled.cancelledBy.
// NoParty renders as the empty string.
func (p Party) String() string {
	return getPartyStrings()[p]
}

// Validate requires one of the three cancelling parties.
func (p Party) Validate() error {
	if p == NoParty {
		return errs.NewValueIsRequiredError("party")
	}
	if _, ok := getPartyStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("party is invalid", fmt.Errorf("%d is not a valid party", p))
	}
	return nil
}

// ParseParty accepts the names produced by String.
func ParseParty(s string) (Party, error) {
	for p, str := range getPartyStrings() {
		if p != NoParty && str == s {
			return p, nil
		}
	}
	return NoParty, errs.NewValueIsInvalidErrorWithCause("party is invalid", fmt.Errorf("%q is not a valid party", s))
}
