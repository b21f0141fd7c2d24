package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/recocache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery uint64
	RefreshEvery  uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr atomic.Uint64
	refreshCtr  atomic.Uint64
}

var _ recocache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SelfHealStore(ch recocache.ChannelID, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("recocache.self_heal_store",
		"channel_id", int64(ch),
		"reason", reason)
}

func (h *Hooks) CacheDropped(ch recocache.ChannelID) {
	if h.l == nil {
		return
	}
	h.l.Info("recocache.cache_dropped",
		"channel_id", int64(ch))
}

func (h *Hooks) TotalCountClamped(ch recocache.ChannelID, received, clamped int32) {
	if h.l == nil {
		return
	}
	h.l.Warn("recocache.total_count_clamped",
		"channel_id", int64(ch),
		"received", received,
		"clamped", clamped)
}

func (h *Hooks) BackgroundRefresh(ch recocache.ChannelID) {
	if h.l == nil || !sample(h.opts.RefreshEvery, &h.refreshCtr) {
		return
	}
	h.l.Debug("recocache.background_refresh",
		"channel_id", int64(ch))
}
