// Package queries contains the read operations. Handlers read the tables
// directly and return flat read models; they never load aggregates.
package queries
