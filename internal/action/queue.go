package action

type delayed struct {
	action    *Action
	remaining float64
}

// Queue is the FIFO action list of one object plus the delayed list.
// An action lives in exactly one of the two at a time.
// Not safe for concurrent use: the area core is single-threaded.
type Queue struct {
	actions []*Action
	delayed []delayed
}

// Add appends to the FIFO queue.
func (q *Queue) Add(a *Action) {
	q.actions = append(q.actions, a)
}

// AddFirst puts a at the front, making it current.
func (q *Queue) AddFirst(a *Action) {
	q.actions = append([]*Action{a}, q.actions...)
}

// AddDelayed parks a until delay seconds of Update have elapsed.
func (q *Queue) AddDelayed(a *Action, delay float64) {
	q.delayed = append(q.delayed, delayed{action: a, remaining: delay})
}

// Current returns the front of the queue or nil.
func (q *Queue) Current() *Action {
	if len(q.actions) == 0 {
		return nil
	}
	return q.actions[0]
}

// Pop removes the current action. No-op on an empty queue.
func (q *Queue) Pop() {
	if len(q.actions) == 0 {
		return
	}
	q.actions[0] = nil
	q.actions = q.actions[1:]
}

// Remove drops a specific action wherever it is.
func (q *Queue) Remove(a *Action) {
	for i, queued := range q.actions {
		if queued == a {
			q.actions = append(q.actions[:i], q.actions[i+1:]...)
			return
		}
	}
}

// Clear drops every queued and delayed action without running completion logic.
func (q *Queue) Clear() {
	q.actions = nil
	q.delayed = nil
}

// ClearUserActions drops queued actions issued by player input.
func (q *Queue) ClearUserActions() {
	kept := q.actions[:0]
	for _, a := range q.actions {
		if !a.UserAction {
			kept = append(kept, a)
		}
	}
	for i := len(kept); i < len(q.actions); i++ {
		q.actions[i] = nil
	}
	q.actions = kept
}

// Update advances delayed timers and moves elapsed actions to the FIFO end
// in the order they were delayed.
func (q *Queue) Update(dt float64) {
	if len(q.delayed) == 0 {
		return
	}
	kept := q.delayed[:0]
	for _, d := range q.delayed {
		d.remaining -= dt
		if d.remaining <= 0 {
			q.actions = append(q.actions, d.action)
			continue
		}
		kept = append(kept, d)
	}
	q.delayed = kept
}

// Len returns the number of FIFO actions.
func (q *Queue) Len() int {
	return len(q.actions)
}

// DelayedLen returns the number of delayed actions.
func (q *Queue) DelayedLen() int {
	return len(q.delayed)
}

// Actions returns a copy of the FIFO queue.
func (q *Queue) Actions() []*Action {
	out := make([]*Action, len(q.actions))
	copy(out, q.actions)
	return out
}
