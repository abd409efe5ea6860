// Package order implements the order workflow aggregate.
//
// An Order is an immutable value. Every command is a method that returns the
// next Order together with the events the transition produced, leaving the
// receiver untouched:
//
//	next, events, err := o.AcceptInvitation(workshopID, now)
//
// Lifecycle:
//
//	PendingWorkshopInvitations ──> AwaitingStageConfirmations ──> Completed
//	          │                              │
//	          └──────────────> Cancelled <───┘
//
// The aggregate owns two trackers. InvitationTracker counts responses to the
// invitations sent at creation and decides the quorum. StageTracker holds the
// stage set declared at creation and the workshop mark / commissioner confirm
// handshake for each stage.
//
// Every accepted transition increments the order version by one, and each
// event of that transition carries the new version as its aggregateVersion.
// Commands against a terminated or completed order fail with
// errs.PreconditionFailedError.
package order
