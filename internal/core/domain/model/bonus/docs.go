// Package bonus holds the commissioner loyalty model: points, grades and the
// VIP threshold policy.
//
// Grades by accumulated points:
//
//	Newcomer 0, Bronze 100, Silver 300, Gold 600, Platinum 1000
//
// A completed order earns floor(budget / 10) points. A commissioner cancelling
// after the invitations were answered loses CancellationPenalty points. Points
// never go below zero.
package bonus
