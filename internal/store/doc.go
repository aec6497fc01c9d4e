// Package store defines the persistence interfaces of the learning engine:
// items, schedule state, queue selection, sessions, and the reusable
// per-day counter. The scheduling and stats services depend only on these
// interfaces; internal/platform/postgres provides the implementations.
package store
