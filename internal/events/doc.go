// Package events decouples the services that request background work from
// the task system that performs it. A service emits a TaskRequestEvent
// without knowing which handler will claim it; handlers register with an
// EventEmitter at wiring time. This keeps the service layer free of task
// package imports and breaks what would otherwise be a dependency cycle.
package events
