// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/recocache"
//	"github.com/unkn0wn-root/recocache/hooks/async"
//	"github.com/unkn0wn-root/recocache/sloghooks"
//	"github.com/unkn0wn-root/recocache/store/redis"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    SelfHealEvery: 10, // sample logs: ~every 10th self-heal
//	    RefreshEvery:  1,  // log every background refresh
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	mgr, _ := recocache.New(recocache.Options{
//	    Directory: dir,
//	    Fetcher:   fetcher,
//	    Store:     rds,
//	    MessageDB: true,
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
//
// Manager hooks fire while its internal lock is held, so anything that may
// block (IO-backed sinks, slow handlers) should go through this wrapper.
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/recocache"
)

type Hooks struct {
	inner recocache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ recocache.Hooks = (*Hooks)(nil)

func New(inner recocache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) SelfHealStore(ch recocache.ChannelID, reason string) {
	h.try(func() { h.inner.SelfHealStore(ch, reason) })
}
func (h *Hooks) CacheDropped(ch recocache.ChannelID) {
	h.try(func() { h.inner.CacheDropped(ch) })
}
func (h *Hooks) TotalCountClamped(ch recocache.ChannelID, received, clamped int32) {
	h.try(func() { h.inner.TotalCountClamped(ch, received, clamped) })
}
func (h *Hooks) BackgroundRefresh(ch recocache.ChannelID) {
	h.try(func() { h.inner.BackgroundRefresh(ch) })
}
