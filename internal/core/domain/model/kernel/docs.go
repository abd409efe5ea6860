// Package kernel holds the primitives shared by every aggregate of the order
// workflow: identifiers and the clock transitions are stamped with.
package kernel
