// Package jobs runs the engine's recurring background work: the daily
// retention purge of the day-counter tables and the periodic review-reminder
// pick handed to the notification boundary.
package jobs
