package services

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/event"
)

// ErrNoRoute is returned for an event name without a destination topic.
var ErrNoRoute = errors.New("no topic for event")

// Topic is a Kafka topic name. Events of one order are spread across several
// topics, so consumers must not rely on cross-topic ordering.
type Topic string

const (
	// TopicOrderTransitions carries lifecycle milestones of an order.
	TopicOrderTransitions Topic = "order_transitions"
	// TopicInvitationResponses carries accepts and declines.
	TopicInvitationResponses Topic = "invitation_responses"
	// TopicStageTransitions carries stage marks, confirmations and the final mark.
	TopicStageTransitions Topic = "stage_transitions"
	// TopicRequestUpdates carries request edits.
	TopicRequestUpdates Topic = "request_updates"
	// TopicCancelRequest carries cancellations by any party.
	TopicCancelRequest Topic = "cancel_request"
	// TopicGradeUpdates is written by the bonus service.
	TopicGradeUpdates Topic = "grade_updates"
	// TopicVipStatusUpdates is written by the bonus service.
	TopicVipStatusUpdates Topic = "vip_status_updates"
)

// String returns the topic name.
func (t Topic) String() string {
	return string(t)
}

// TopicRouter maps event names to topics. The zero value is ready to use.
type TopicRouter struct{}

// NewTopicRouter returns a router over the fixed route table.
func NewTopicRouter() TopicRouter {
	return TopicRouter{}
}

func getRoutes() map[event.Name]Topic {
	return map[event.Name]Topic{
		event.OrderInitializedName:       TopicOrderTransitions,
		event.AllResponsesReceivedName:   TopicOrderTransitions,
		event.AllInvitationsDeclinedName: TopicOrderTransitions,
		event.OrderCompletedName:         TopicOrderTransitions,
		event.InvitationAcceptedName:     TopicInvitationResponses,
		event.InvitationDeclinedName:     TopicInvitationResponses,
		event.StageMarkedAsCompletedName: TopicStageTransitions,
		event.StageConfirmedName:         TopicStageTransitions,
		event.OrderMarkedAsCompletedName: TopicStageTransitions,
		event.RequestEditedName:          TopicRequestUpdates,
		event.OrderCancelledName:         TopicCancelRequest,
		event.GradeAttainedName:          TopicGradeUpdates,
		event.VipAccquiredName:           TopicVipStatusUpdates,
		event.VipLostName:                TopicVipStatusUpdates,
	}
}

// Route returns the topic for name, or an error wrapping ErrNoRoute.
//
// Example:
//
//	topic, err := router.Route(event.OrderCompletedName)
//	// topic == TopicOrderTransitions
func (TopicRouter) Route(name event.Name) (Topic, error) {
	topic, ok := getRoutes()[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoRoute, name)
	}
	return topic, nil
}

// Topics lists every destination, for consumers that subscribe to all of them.
func (TopicRouter) Topics() []Topic {
	return []Topic{
		TopicOrderTransitions,
		TopicInvitationResponses,
		TopicStageTransitions,
		TopicRequestUpdates,
		TopicCancelRequest,
		TopicGradeUpdates,
		TopicVipStatusUpdates,
	}
}
