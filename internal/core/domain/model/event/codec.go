package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"orderflow/internal/pkg/errs"
)

var (
	// ErrUnknownEventName is wrapped by Decode when the envelope names an event
	// this build does not know.
	ErrUnknownEventName = errors.New("unknown event name")
	// ErrUnsupportedSchemaVersion is wrapped by Decode when the event is known
	// but its schemaV is not registered.
	ErrUnsupportedSchemaVersion = errors.New("unsupported schema version")
)

type registration struct {
	versions []int
	decode   func([]byte) (Event, error)
}

func decodeAs[T Event](data []byte) (Event, error) {
	var e T
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return e, nil
}

var registry = map[Name]registration{
	OrderInitializedName:       {versions: []int{1}, decode: decodeAs[OrderInitialized]},
	RequestEditedName:          {versions: []int{1}, decode: decodeAs[RequestEdited]},
	InvitationAcceptedName:     {versions: []int{1}, decode: decodeAs[InvitationAccepted]},
	InvitationDeclinedName:     {versions: []int{1}, decode: decodeAs[InvitationDeclined]},
	AllResponsesReceivedName:   {versions: []int{1}, decode: decodeAs[AllResponsesReceived]},
	AllInvitationsDeclinedName: {versions: []int{1}, decode: decodeAs[AllInvitationsDeclined]},
	StageMarkedAsCompletedName: {versions: []int{1}, decode: decodeAs[StageMarkedAsCompleted]},
	StageConfirmedName:         {versions: []int{1}, decode: decodeAs[StageConfirmed]},
	OrderMarkedAsCompletedName: {versions: []int{1}, decode: decodeAs[OrderMarkedAsCompleted]},
	OrderCompletedName:         {versions: []int{1}, decode: decodeAs[OrderCompleted]},
	OrderCancelledName:         {versions: []int{1}, decode: decodeAs[OrderCancelled]},
	GradeAttainedName:          {versions: []int{1}, decode: decodeAs[GradeAttained]},
	VipAccquiredName:           {versions: []int{1}, decode: decodeAs[VipAccquired]},
	VipLostName:                {versions: []int{1}, decode: decodeAs[VipLost]},
}

// Names lists every registered event name.
func Names() []Name {
	names := make([]Name, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Encode validates e and renders its wire form.
func Encode(e Event) ([]byte, error) {
	if e == nil {
		return nil, errs.NewValueIsRequiredError("event")
	}
	if err := e.Validate(); err != nil {
		return nil, errs.NewInvariantViolationErrorWithCause(fmt.Sprintf("%s is malformed", e.Meta().EventName), err)
	}
	return json.Marshal(e)
}

// header is read first with plain types so a bad identifier does not hide the
// event name from the caller.
type header struct {
	EventName Name `json:"eventName"`
	SchemaV   int  `json:"schemaV"`
}

// Decode parses and validates an inbound envelope.
func Decode(data []byte) (Event, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, errs.NewInvariantViolationErrorWithCause("event payload is not a JSON object", err)
	}
	if h.EventName == "" {
		return nil, errs.NewInvariantViolationErrorWithCause("event payload is malformed", errs.NewValueIsRequiredError("eventName"))
	}

	reg, ok := registry[h.EventName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventName, h.EventName)
	}
	if !slices.Contains(reg.versions, h.SchemaV) {
		return nil, fmt.Errorf("%w: %s v%d", ErrUnsupportedSchemaVersion, h.EventName, h.SchemaV)
	}

	e, err := reg.decode(data)
	if err != nil {
		return nil, errs.NewInvariantViolationErrorWithCause(fmt.Sprintf("%s payload is malformed", h.EventName), err)
	}
	if err = e.Validate(); err != nil {
		return nil, errs.NewInvariantViolationErrorWithCause(fmt.Sprintf("%s payload is malformed", h.EventName), err)
	}
	return e, nil
}

// Peek reads the envelope without requiring the event to be registered. It
// lets consumers record rejected or skipped messages by identity.
func Peek(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, errs.NewInvariantViolationErrorWithCause("event envelope is malformed", err)
	}
	return env, nil
}
