package domain

// QueueEntry pairs an eligible item with its schedule state for one concrete
// direction. Progress is nil when the item has never been reviewed in that
// direction; such entries sort after everything already on the schedule.
type QueueEntry struct {
	Item      Item            `json:"item"`
	Direction Direction       `json:"direction"`
	Progress  *ProgressRecord `json:"progress,omitempty"`
}

// IsNew reports whether the entry has never been reviewed in its direction.
func (e QueueEntry) IsNew() bool {
	return e.Progress == nil
}
