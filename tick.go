package stage

// TickManager holds callbacks that run once at the start or end of the
// next tick.
type TickManager struct {
	start []Callback
	end   []Callback
}

// ScheduleStart queues cb to run before the scene updates.
func (t *TickManager) ScheduleStart(cb Callback) {
	cb.check()
	t.start = append(t.start, cb)
}

// ScheduleEnd queues cb to run after the scene updates.
func (t *TickManager) ScheduleEnd(cb Callback) {
	cb.check()
	t.end = append(t.end, cb)
}

// Pending returns the number of queued start and end callbacks.
func (t *TickManager) Pending() (start, end int) {
	return len(t.start), len(t.end)
}

func (t *TickManager) runStart() { drain(&t.start) }

func (t *TickManager) runEnd() { drain(&t.end) }

// drain runs every callback in q, including ones queued while running, and
// leaves q empty.
func drain(q *[]Callback) {
	for i := 0; i < len(*q); i++ {
		(*q)[i].Invoke()
	}
	*q = (*q)[:0]
}
