// Package api contains the HTTP handlers that expose the study engine to
// the presentation collaborator: the due queue, grading, session and daily
// progress tracking, and background item generation.
package api
