// Package event defines the domain events exchanged between the order workflow
// and its downstream consumers.
//
// Every event embeds an Envelope and is encoded as a flat JSON object:
//
//	{"eventId": "...", "eventName": "OrderCancelled", "schemaV": 1,
//	 "correlationId": "...", "aggregateId": "...", "aggregateVersion": 4,
//	 "cancelledBy": "Commissioner", ..., "timestamp": "2026-03-01T10:00:00Z"}
//
// Decode is the only entry point for inbound payloads. It separates three
// failure classes:
//   - ErrUnknownEventName: the name is not registered, consumers skip it
//   - ErrUnsupportedSchemaVersion: the name is known but not this schemaV,
//     consumers must reject rather than guess field semantics
//   - errs.ErrInvariantViolation: malformed JSON or a missing required field,
//     a producer bug
//
// Unknown JSON fields are ignored so producers can add fields without a
// schemaV bump.
package event
