package event

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/govalues/decimal"
)

// Name is the discriminator of the event union.
type Name string

const (
	// OrderInitializedName means an order was created and its invitations were sent.
	OrderInitializedName Name = "OrderInitialized"
	// RequestEditedName means the commissioner changed one field of the request.
	RequestEditedName Name = "RequestEdited"
	// InvitationAcceptedName means an invited workshop accepted.
	InvitationAcceptedName Name = "InvitationAccepted"
	// InvitationDeclinedName means an invited workshop declined.
	InvitationDeclinedName Name = "InvitationDeclined"
	// AllResponsesReceivedName means every invitation has a response.
	AllResponsesReceivedName Name = "AllResponsesReceived"
	// AllInvitationsDeclinedName means every invitation was declined and the order is cancelled.
	AllInvitationsDeclinedName Name = "AllInvitationsDeclined"
	// StageMarkedAsCompletedName means a workshop marked a stage as done.
	StageMarkedAsCompletedName Name = "StageMarkedAsCompleted"
	// StageConfirmedName means the commissioner confirmed a marked stage.
	StageConfirmedName Name = "StageConfirmed"
	// OrderMarkedAsCompletedName means the last stage was confirmed.
	OrderMarkedAsCompletedName Name = "OrderMarkedAsCompleted"
	// OrderCompletedName means the order reached Completed.
	OrderCompletedName Name = "OrderCompleted"
	// OrderCancelledName means the order was cancelled by any party.
	OrderCancelledName Name = "OrderCancelled"
	// GradeAttainedName means a bonus profile moved to a new grade.
	GradeAttainedName Name = "GradeAttained"
	// VipAccquiredName means a bonus profile crossed the VIP threshold.
	VipAccquiredName Name = "VipAccquired"
	// VipLostName means a bonus profile fell below the VIP threshold.
	VipLostName Name = "VipLost"
)

// String returns the wire name.
func (n Name) String() string {
	return string(n)
}

// OrderInitialized is the first event of every order. It carries the full
// request, the invited workshops and the stage set.
type OrderInitialized struct {
	Envelope
	CommissionerID kernel.UUID     `json:"commissionerId"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Deadline       time.Time       `json:"deadline"`
	Budget         decimal.Decimal `json:"budget"`
	WorkshopIDs    []kernel.UUID   `json:"workshopIds"`
	Stages         []string        `json:"stages"`
}

// Validate checks the envelope and the required OrderInitialized fields.
func (e OrderInitialized) Validate() error {
	var errList []error
	errList = append(errList, e.Envelope.Validate(), requireID("commissionerId", e.CommissionerID))
	if len(e.WorkshopIDs) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("workshopIds"))
	}
	if len(e.Stages) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("stages"))
	}
	return errors.Join(errList...)
}

// RequestEdited carries the full request after the edit so consumers never
// merge partial updates.
type RequestEdited struct {
	Envelope
	CommissionerID kernel.UUID     `json:"commissionerId"`
	Field          string          `json:"field"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Deadline       time.Time       `json:"deadline"`
	Budget         decimal.Decimal `json:"budget"`
	RequestVersion int64           `json:"requestVersion"`
}

// Validate checks the envelope and the required RequestEdited fields.
func (e RequestEdited) Validate() error {
	return errors.Join(e.Envelope.Validate(), requireID("commissionerId", e.CommissionerID), requireString("field", e.Field))
}

// InvitationAccepted is emitted for each acceptance. It precedes
// AllResponsesReceived when it completes the quorum.
type InvitationAccepted struct {
	Envelope
	CommissionerID kernel.UUID `json:"commissionerId"`
	WorkshopID     kernel.UUID `json:"workshopId"`
}

// Validate checks the envelope and the required InvitationAccepted fields.
func (e InvitationAccepted) Validate() error {
	return errors.Join(e.Envelope.Validate(), requireID("commissionerId", e.CommissionerID), requireID("workshopId", e.WorkshopID))
}

// InvitationDeclined is emitted for each decline.
type InvitationDeclined struct {
	Envelope
	CommissionerID kernel.UUID `json:"commissionerId"`
	WorkshopID     kernel.UUID `json:"workshopId"`
}

// Validate checks the envelope and the required InvitationDeclined fields.
func (e InvitationDeclined) Validate() error {
	return errors.Join(e.Envelope.Validate(), requireID("commissionerId", e.CommissionerID), requireID("workshopId", e.WorkshopID))
}

// AllResponsesReceived closes the invitation round. AcceptedWorkshops is in
// invitation order and is empty when every workshop declined.
type AllResponsesReceived struct {
	Envelope
	CommissionerID    kernel.UUID   `json:"commissionerId"`
	Total             int           `json:"total"`
	Declines          int           `json:"declines"`
	AcceptedWorkshops []kernel.UUID `json:"acceptedWorkshops"`
}

// Validate checks the envelope and the required AllResponsesReceived fields.
func (e AllResponsesReceived) Validate() error {
	return errors.Join(e.Envelope.Validate(), requireID("commissionerId", e.CommissionerID))
}

// AllInvitationsDeclined follows AllResponsesReceived when nobody accepted.
// The order is cancelled by PartySystem in the same transition.
type AllInvitationsDeclined struct {
	Envelope
	CommissionerID kernel.UUID `json:"commissionerId"`
}

// Validate checks the envelope and the required AllInvitationsDeclined fields.
func (e AllInvitationsDeclined) Validate() error {
	return errors.Join(e.Envelope.Validate(), requireID("commissionerId", e.CommissionerID))
}

// StageMarkedAsCompleted is emitted once per stage; repeated marks are no-ops.
type StageMarkedAsCompleted struct {
	Envelope
	WorkshopID kernel.UUID `json:"workshopId"`
	Stage      string      `json:"stage"`
}

// Validate checks the envelope and the required StageMarkedAsCompleted fields.
func (e StageMarkedAsCompleted) Validate() error {
	return errors.Join(e.Envelope.Validate(), requireID("workshopId", e.WorkshopID), requireString("stage", e.Stage))
}

// StageConfirmed is emitted when the commissioner confirms a marked stage.
type StageConfirmed struct {
	Envelope
	CommissionerID kernel.UUID `json:"commissionerId"`
	Stage          string      `json:"stage"`
}

// Validate checks the envelope and the required StageConfirmed fields.
func (e StageConfirmed) Validate() error {
	return errors.Join(e.Envelope.Validate(), requireID("commissionerId", e.CommissionerID), requireString("stage", e.Stage))
}

// OrderMarkedAsCompleted is emitted right before OrderCompleted when the last
// stage is confirmed.
type OrderMarkedAsCompleted struct {
	Envelope
	CommissionerID kernel.UUID `json:"commissionerId"`
}

// Validate checks the envelope and the required OrderMarkedAsCompleted fields.
func (e OrderMarkedAsCompleted) Validate() error {
	return errors.Join(e.Envelope.Validate(), requireID("commissionerId", e.CommissionerID))
}

// OrderCompleted is the event the bonus service accrues points from.
type OrderCompleted struct {
	Envelope
	CommissionerID kernel.UUID     `json:"commissionerId"`
	Budget         decimal.Decimal `json:"budget"`
}

// Validate checks the envelope and the required OrderCompleted fields.
func (e OrderCompleted) Validate() error {
	return errors.Join(e.Envelope.Validate(), requireID("commissionerId", e.CommissionerID))
}

// OrderCancelled records who cancelled and the state the order left.
type OrderCancelled struct {
	Envelope
	CommissionerID kernel.UUID  `json:"commissionerId"`
	CancelledBy    string       `json:"cancelledBy"`
	ActorID        *kernel.UUID `json:"actorId,omitempty"`
	Reason         string       `json:"reason"`
	PreviousState  string       `json:"previousState"`
}

// Validate checks the envelope and the required OrderCancelled fields.
func (e OrderCancelled) Validate() error {
	return errors.Join(
		e.Envelope.Validate(),
		requireID("commissionerId", e.CommissionerID),
		requireString("cancelledBy", e.CancelledBy),
		requireString("previousState", e.PreviousState),
	)
}

// GradeAttained is published by the bonus service when accrued points move a
// profile to another grade.
type GradeAttained struct {
	Envelope
	CommissionerID kernel.UUID `json:"commissionerId"`
	Grade          string      `json:"grade"`
	PreviousGrade  string      `json:"previousGrade"`
	Points         int64       `json:"points"`
}

// Validate checks the envelope and the required GradeAttained fields.
func (e GradeAttained) Validate() error {
	return errors.Join(e.Envelope.Validate(), requireID("commissionerId", e.CommissionerID), requireString("grade", e.Grade))
}

// VipAccquired keeps the historical spelling of the wire name.
type VipAccquired struct {
	Envelope
	CommissionerID kernel.UUID `json:"commissionerId"`
	Points         int64       `json:"points"`
	VipThreshold   int64       `json:"vipThreshold"`
	PolicyName     string      `json:"policyName"`
	PolicyVersion  int64       `json:"policyVersion"`
}

// Validate checks the envelope and the required VipAccquired fields.
func (e VipAccquired) Validate() error {
	return errors.Join(e.Envelope.Validate(), requireID("commissionerId", e.CommissionerID), requireString("policyName", e.PolicyName))
}

// VipLost is published when a policy change or a points adjustment drops a
// profile under the VIP threshold.
type VipLost struct {
	Envelope
	CommissionerID kernel.UUID `json:"commissionerId"`
	Points         int64       `json:"points"`
	VipThreshold   int64       `json:"vipThreshold"`
	PolicyName     string      `json:"policyName"`
	PolicyVersion  int64       `json:"policyVersion"`
}

// Validate checks the envelope and the required VipLost fields.
func (e VipLost) Validate() error {
	return errors.Join(e.Envelope.Validate(), requireID("commissionerId", e.CommissionerID), requireString("policyName", e.PolicyName))
}
