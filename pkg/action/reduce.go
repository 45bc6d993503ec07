package action

// Reducer folds an ordered action stream into a shorter one by merging
// adjacent compatible actions. It holds a single pending slot and needs no
// lookahead, so it can run incrementally as capture produces actions or in
// batch over a stored log.
type Reducer struct {
	pending *Action
}

// NewReducer creates an empty reducer.
func NewReducer() *Reducer {
	return &Reducer{}
}

// Push feeds the next action in stream order. When the pending action
// cannot absorb it, the pending action is emitted and next takes its place;
// otherwise nothing is emitted yet.
func (r *Reducer) Push(next *Action) (*Action, bool) {
	if next == nil {
		return nil, false
	}
	if r.pending == nil {
		r.pending = next
		return nil, false
	}
	if r.pending.CanMergeWith(next) {
		merged, err := r.pending.MergeWith(next)
		if err == nil {
			r.pending = merged
			return nil, false
		}
	}

	emitted := r.pending
	r.pending = next
	return emitted, true
}

// Flush emits the pending action at end of stream, if any.
func (r *Reducer) Flush() (*Action, bool) {
	if r.pending == nil {
		return nil, false
	}
	emitted := r.pending
	r.pending = nil
	return emitted, true
}

// Pending returns the action currently held back, if any.
func (r *Reducer) Pending() (*Action, bool) {
	return r.pending, r.pending != nil
}

// Reduce folds a complete action slice in one pass. The output is never
// longer than the input and preserves the relative order of all unmerged
// actions.
func Reduce(in []*Action) []*Action {
	r := NewReducer()
	out := make([]*Action, 0, len(in))
	for _, a := range in {
		if emitted, ok := r.Push(a); ok {
			out = append(out, emitted)
		}
	}
	if emitted, ok := r.Flush(); ok {
		out = append(out, emitted)
	}
	return out
}
