package service

import "sync"

// ActionGuard debounces concurrent lifecycle actions against the same
// invitation within this process. It is a UX affordance, not a correctness
// mechanism: double-clicked resend buttons get a clean conflict instead of
// two emails. Cross-process races are settled by the store's conditional
// updates, which this guard does not replace.
type ActionGuard struct {
	mu       sync.Mutex
	inflight map[string]string // invitation id -> action name
}

func NewActionGuard() *ActionGuard {
	return &ActionGuard{inflight: make(map[string]string)}
}

// Begin claims the invitation for the named action. It reports false when
// another action already holds the claim; the caller must not proceed and
// must not call End.
func (g *ActionGuard) Begin(invitationID, action string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inflight[invitationID]; busy {
		return false
	}
	g.inflight[invitationID] = action
	return true
}

// End releases the claim taken by a successful Begin.
func (g *ActionGuard) End(invitationID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, invitationID)
}

// InFlight reports the action currently holding the invitation, if any.
func (g *ActionGuard) InFlight(invitationID string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	action, busy := g.inflight[invitationID]
	return action, busy
}
