// Package service contains the application-level use cases of the study
// engine. It orchestrates domain objects and the repositories defined in
// internal/store to fulfill the study, statistics and generation flows.
//
// Services own the transactional boundaries: the grading flow commits the
// schedule write and the daily counter bump in one transaction, and the
// generation flow saves a generated batch together with its quota increment.
// Infrastructure details stay behind the store interfaces, so every service
// is constructed from interfaces plus a small config struct and can be
// exercised with fakes.
//
// Error handling follows the repository convention: expected conditions
// surface as sentinel errors (store taxonomy plus the sentinels in this
// package) that callers check with errors.Is, and the API layer maps them
// to status codes centrally.
package service
