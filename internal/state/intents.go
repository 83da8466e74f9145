package state

import "bomberman/internal/protocol"

// intentMsg pairs a submitted intent with the player it came from.
type intentMsg struct {
	id     protocol.PlayerId
	intent protocol.ClientMessage
}

// IntentQueue replaces the reader/writer "want-to-write" atomic-counter
// pattern spec.md §5 describes with a single channel: connection goroutines
// submit intents as they arrive, and the engine drains everything currently
// queued once per turn. Because Drain applies submissions to a map in
// arrival order, a second intent from the same player before a drain
// naturally overwrites the first — last-writer-wins within the drain
// window, with no separate locking required (spec.md §9, Open Questions).
type IntentQueue struct {
	ch chan intentMsg
}

// NewIntentQueue creates an IntentQueue with headroom for many connections
// submitting between drains.
func NewIntentQueue() *IntentQueue {
	return &IntentQueue{ch: make(chan intentMsg, 4096)}
}

// Submit enqueues an intent from id. It blocks only if the queue is
// pathologically backed up; a well-behaved engine drains every turn.
func (q *IntentQueue) Submit(id protocol.PlayerId, intent protocol.ClientMessage) {
	q.ch <- intentMsg{id: id, intent: intent}
}

// Drain empties every currently-queued intent into a map keyed by
// PlayerId, then returns it. It never blocks: once the channel reports no
// more buffered sends, the drain is done for this turn.
func (q *IntentQueue) Drain() map[protocol.PlayerId]protocol.ClientMessage {
	out := make(map[protocol.PlayerId]protocol.ClientMessage)
	for {
		select {
		case m := <-q.ch:
			out[m.id] = m.intent
		default:
			return out
		}
	}
}
