package recocache

import "time"

// loadFromStore is the cold-read path: consult the persisted copy before
// going to the network. Runs on its own goroutine without the lock held
// during IO.
func (m *Manager) loadFromStore(ch ChannelID) {
	raw, ok, err := m.store.Get(m.ctx, m.storeKey(ch))

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if err != nil {
		m.log.Warn("store read failed, falling back to remote", Fields{"channel": ch, "err": err})
	}
	if err != nil || !ok {
		run := m.reloadLocked(ch)
		m.mu.Unlock()
		runAll(run)
		return
	}

	rec, decErr := m.codec.Decode(raw)
	reason := ""
	switch {
	case decErr != nil:
		reason = "decode"
	case !m.resolveDialogs(rec.Dialogs):
		reason = "unresolved"
	case !m.suitableDialogs(rec):
		reason = "unsuitable"
	}
	if reason != "" {
		run := m.selfHealLocked(ch, reason)
		m.mu.Unlock()
		runAll(run)
		return
	}

	m.recs[ch] = rec
	next := rec.NextReload
	run := m.finishLocked(ch, rec.TotalCount, rec.Dialogs)
	if !next.After(time.Now()) {
		m.hooks.BackgroundRefresh(ch)
		run = append(run, m.enqueueLocked(ch, CountMayWait, nil, nil, false)...)
	}
	m.mu.Unlock()
	runAll(run)
}

// selfHealLocked erases a persisted entry that failed validation and falls
// back to the network.
func (m *Manager) selfHealLocked(ch ChannelID, reason string) []func() {
	m.hooks.SelfHealStore(ch, reason)
	m.log.Debug("erasing persisted recommendations", Fields{"channel": ch, "reason": reason})
	go m.eraseStored(ch)
	return m.reloadLocked(ch)
}

func (m *Manager) eraseStored(ch ChannelID) {
	if err := m.store.Del(m.ctx, m.storeKey(ch)); err != nil {
		m.log.Warn("store delete failed", Fields{"channel": ch, "err": err})
	}
}

func (m *Manager) resolveDialogs(dialogs []DialogID) bool {
	for _, d := range dialogs {
		if !m.dir.ResolveDialog(d) {
			return false
		}
	}
	return true
}

// fetch performs the remote load and settles every caller queued for ch.
// Runs on its own goroutine.
func (m *Manager) fetch(ch ChannelID) {
	total, channels, err := m.fetcher.FetchRecommendations(m.ctx, ch)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if err != nil {
		run := m.failLocked(ch, err)
		m.mu.Unlock()
		runAll(run)
		return
	}

	if total < int32(len(channels)) {
		m.log.Error("total below returned list, clamping", Fields{"channel": ch, "total": total, "returned": len(channels)})
		m.hooks.TotalCountClamped(ch, total, int32(len(channels)))
		total = int32(len(channels))
	}

	dialogs := make([]DialogID, 0, len(channels))
	for _, rc := range channels {
		d := ChannelDialogID(rc)
		m.dir.RegisterDialog(d)
		if m.suitableChannel(rc) {
			dialogs = append(dialogs, d)
		} else {
			total--
		}
	}

	rec := &RecommendedDialogs{
		Dialogs:    dialogs,
		TotalCount: total,
		NextReload: time.Now().Add(m.cacheTime),
	}
	m.recs[ch] = rec

	if m.persistEnabled() {
		if raw, encErr := m.codec.Encode(rec); encErr != nil {
			m.log.Warn("encode for store failed", Fields{"channel": ch, "err": encErr})
		} else {
			go m.persist(ch, raw)
		}
	}

	run := m.finishLocked(ch, total, dialogs)
	m.mu.Unlock()
	runAll(run)
}

func (m *Manager) persist(ch ChannelID, raw []byte) {
	if err := m.store.Set(m.ctx, m.storeKey(ch), raw); err != nil {
		m.log.Warn("store write failed", Fields{"channel": ch, "err": err})
	}
}
