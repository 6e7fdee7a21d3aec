package state

import (
	"cosmossdk.io/store/cachekv"
)

// CacheContext branches the context's store. Writes land in the branch and
// reach the parent store only when the returned write func runs; events
// emitted on the branch are folded into the parent at the same point.
// Discarding the branch without calling write drops both.
func (c Context) CacheContext() (Context, func()) {
	branch := cachekv.NewStore(c.store)
	cc := c
	cc.store = branch
	cc.em = NewEventManager()
	write := func() {
		branch.Write()
		c.em.EmitEvents(cc.em.Events())
	}
	return cc, write
}
