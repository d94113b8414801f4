package game

import "sync/atomic"

// PlayerInput is the shape both a human session and the AI controller (F)
// produce every tick. moveX/moveY are in [-1, 1]; aimWorld is a world-space
// point the player is aiming at (Y-up, per the transport contract).
type PlayerInput struct {
	MoveX, MoveY       float64
	AimWorldX, AimWorldY float64
	Fire               bool // primary trigger (left)
	Utility            bool // secondary/utility trigger (right / altFire)
	Reload             bool
	TickNum            uint64 // tick this input was produced for, for staleness checks
}

// Mailbox is a single-slot, overwrite-on-write input channel: the most
// recent write wins, there is no queueing and no backpressure. This is
// deliberately simpler than spatial.LockFreeQueue (a bounded MPSC ring
// buffer) because the match engine only ever wants "the latest input for
// this player", never a backlog of stale ones.
type Mailbox struct {
	slot atomic.Pointer[PlayerInput]
}

// Put overwrites the mailbox's contents. Safe for concurrent writers; only
// the most recent call before a Take wins.
func (m *Mailbox) Put(in PlayerInput) {
	m.slot.Store(&in)
}

// Take returns the current contents and whether anything had been written.
// It does not clear the slot: a player who stops sending input keeps
// driving their last-known input rather than snapping to neutral, matching
// the "mailbox" glossary definition (most recent write is read once per tick).
func (m *Mailbox) Take() (PlayerInput, bool) {
	p := m.slot.Load()
	if p == nil {
		return PlayerInput{}, false
	}
	return *p, true
}
