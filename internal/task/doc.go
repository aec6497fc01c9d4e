// Package task provides the persisted background task system: the Task
// interface and lifecycle states, the TaskRunner worker pool with crash
// recovery and stuck-task reset, and the item generation task that calls
// the language model boundary. Tasks survive restarts through the tasks
// table; the runner rebuilds their execution logic with a TaskFactory.
package task
