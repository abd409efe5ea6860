// Package services provides domain services that do not belong to a single
// aggregate.
//
// The package includes:
//   - TopicRouter: the fixed mapping from event name to destination topic
//   - VipPolicyEngine: stateless evaluation of commissioner points against the
//     current VIP policy, emitting GradeAttained, VipAccquired and VipLost
package services
