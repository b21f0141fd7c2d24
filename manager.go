package recocache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/unkn0wn-root/recocache/store"
)

const (
	defaultCacheTime = 24 * time.Hour
	defaultKeyPrefix = "channel_recommendations"
)

// CountMode selects how a count request behaves when the answer is not
// local yet.
type CountMode uint8

const (
	// CountMayWait keeps the caller queued until a load delivers the real
	// count.
	CountMayWait CountMode = iota
	// CountLocalOnly never waits on the network: the moment a remote
	// reload becomes necessary the caller receives CountUnknown instead.
	CountLocalOnly
)

const countModes = 2

// CountUnknown is delivered to CountLocalOnly callers when answering would
// require the network.
const CountUnknown int32 = -1

// ChatsFunc receives the result of a full-list request.
type ChatsFunc func(chats Chats, err error)

// CountFunc receives the result of a count request.
type CountFunc func(count int32, err error)

// Manager serves recommended channels for broadcast channels. Concurrent
// requests for one channel share a single load, and every cached answer is
// revalidated before it is served.
type Manager struct {
	dir     Directory
	fetcher Fetcher
	store   store.Store
	codec   Codec
	premium PremiumSource
	sink    EventSink
	log     Logger
	hooks   Hooks

	messageDB bool
	cacheTime time.Duration
	keyPrefix string

	// lifetime context for store and fetch IO; cancelled by Close
	ctx    context.Context
	cancel context.CancelFunc

	// mu guards everything below. Queued callbacks are removed under mu
	// and invoked only after it is released.
	mu     sync.Mutex
	closed bool
	recs   map[ChannelID]*RecommendedDialogs
	// full holds the pending full-list callbacks per channel. A nil entry
	// is a placeholder that keeps a load cycle alive with no caller
	// attached; queue presence means a load is in flight.
	full   map[ChannelID][]ChatsFunc
	counts [countModes]map[ChannelID][]CountFunc
}

func newManager(opts Options) (*Manager, error) {
	if opts.Directory == nil {
		return nil, fmt.Errorf("recocache: directory is required")
	}
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("recocache: fetcher is required")
	}

	m := &Manager{
		dir:       opts.Directory,
		fetcher:   opts.Fetcher,
		store:     opts.Store,
		premium:   opts.Premium,
		sink:      opts.Sink,
		messageDB: opts.MessageDB,
		recs:      make(map[ChannelID]*RecommendedDialogs),
		full:      make(map[ChannelID][]ChatsFunc),
	}
	for i := range m.counts {
		m.counts[i] = make(map[ChannelID][]CountFunc)
	}

	// defaults
	m.codec = coalesce[Codec](opts.Codec, Binary{})
	m.log = coalesce[Logger](opts.Logger, NopLogger{})
	m.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	m.cacheTime = coalesce[time.Duration](opts.CacheTime, defaultCacheTime)
	m.keyPrefix = coalesce[string](opts.KeyPrefix, defaultKeyPrefix)

	m.ctx, m.cancel = context.WithCancel(context.Background())

	if m.store != nil && !m.messageDB {
		// persistence is off; entries left by a previous configuration are
		// unreachable now
		go func() {
			if err := m.store.DelPrefix(m.ctx, m.keyPrefix); err != nil {
				m.log.Warn("startup purge failed", Fields{"prefix": m.keyPrefix, "err": err})
			}
		}()
	}

	return m, nil
}

func (m *Manager) persistEnabled() bool { return m.store != nil && m.messageDB }

func (m *Manager) storeKey(ch ChannelID) string {
	return m.keyPrefix + strconv.FormatInt(int64(ch), 10)
}

// GetRecommendations answers a recommendation request for id through the
// given callbacks. Either callback may be nil; both ride the same load.
// Callbacks may run synchronously on the calling goroutine, or later on an
// internal goroutine once the pending load settles.
func (m *Manager) GetRecommendations(id DialogID, mode CountMode, onChats ChatsFunc, onCount CountFunc) {
	if mode > CountLocalOnly {
		mode = CountMayWait
	}
	if !m.dir.HasDialog(id) {
		resolveErr(onChats, onCount, ErrChatNotFound)
		return
	}
	if !id.IsChannel() {
		resolveEmpty(onChats, onCount)
		return
	}
	ch := ChannelID(id.ID)
	if !m.dir.IsBroadcastChannel(ch) || !m.dir.HasChannelAccess(ch) {
		// not an error: such chats simply have no recommendations
		resolveEmpty(onChats, onCount)
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		resolveErr(onChats, onCount, ErrClosed)
		return
	}

	var run []func()
	useDatabase := true
	if rec, ok := m.recs[ch]; ok {
		if m.suitableDialogs(rec) {
			next := rec.NextReload
			run = append(run, serveThunks(rec.TotalCount, rec.Dialogs, onChats, onCount)...)
			if time.Now().Before(next) {
				m.mu.Unlock()
				runAll(run)
				return
			}
			// served stale; refresh the entry with no caller attached
			onChats, onCount = nil, nil
			m.hooks.BackgroundRefresh(ch)
			m.log.Debug("serving stale recommendations, refreshing", Fields{"channel": ch})
		} else {
			m.log.Info("dropping unsuitable cached recommendations", Fields{"channel": ch})
			m.hooks.CacheDropped(ch)
			delete(m.recs, ch)
			if m.persistEnabled() {
				go m.eraseStored(ch)
			}
		}
		useDatabase = false
	}
	run = append(run, m.enqueueLocked(ch, mode, onChats, onCount, useDatabase)...)
	m.mu.Unlock()
	runAll(run)
}

// Recommendations returns the full recommendation list for id, waiting for
// a load when nothing servable is cached. ctx bounds only this caller's
// wait; a load that already started keeps running for the other callers
// after ctx expires.
func (m *Manager) Recommendations(ctx context.Context, id DialogID) (Chats, error) {
	type result struct {
		chats Chats
		err   error
	}
	done := make(chan result, 1)
	m.GetRecommendations(id, CountMayWait, func(chats Chats, err error) {
		done <- result{chats: chats, err: err}
	}, nil)
	select {
	case r := <-done:
		return r.chats, r.err
	case <-ctx.Done():
		return Chats{}, ctx.Err()
	}
}

// RecommendationCount returns the size of the recommendation set for id.
// With CountLocalOnly the call resolves from local data only and yields
// CountUnknown as soon as a remote reload becomes necessary.
func (m *Manager) RecommendationCount(ctx context.Context, id DialogID, mode CountMode) (int32, error) {
	type result struct {
		count int32
		err   error
	}
	done := make(chan result, 1)
	m.GetRecommendations(id, mode, nil, func(count int32, err error) {
		done <- result{count: count, err: err}
	})
	select {
	case r := <-done:
		return r.count, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// OpenRecommendedChannel reports that the user opened opened from the
// recommendation list shown for id. The submission is handed to the
// configured EventSink; without one the event is discarded.
func (m *Manager) OpenRecommendedChannel(ctx context.Context, id, opened DialogID) error {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if !m.dir.HasDialog(id) || !m.dir.HasDialog(opened) {
		return ErrChatNotFound
	}
	if !id.IsChannel() || !opened.IsChannel() {
		return ErrInvalidChat
	}
	if m.sink == nil {
		return nil
	}
	return m.sink.SaveAppLog(ctx, AppEvent{
		Type: EventOpenRecommendedChannel,
		Peer: id,
		Data: map[string]string{
			"ref_channel_id":  strconv.FormatInt(id.ID, 10),
			"open_channel_id": strconv.FormatInt(opened.ID, 10),
		},
	})
}

// Close fails every pending callback with ErrClosed, drops the in-memory
// cache, and closes the Store when one is configured. Persisted entries
// survive. Safe to call more than once.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.cancel()
	var run []func()
	for ch := range m.full {
		run = append(run, m.failLocked(ch, ErrClosed)...)
	}
	m.recs = nil
	m.mu.Unlock()
	runAll(run)

	if m.store != nil {
		return m.store.Close(ctx)
	}
	return nil
}

// enqueueLocked queues both callbacks for ch and starts a load cycle when
// this is the first pending request. A nil onChats still occupies a queue
// slot, which is how a cycle runs with no caller attached.
func (m *Manager) enqueueLocked(ch ChannelID, mode CountMode, onChats ChatsFunc, onCount CountFunc, useDatabase bool) []func() {
	if onCount != nil {
		m.counts[mode][ch] = append(m.counts[mode][ch], onCount)
	}
	m.full[ch] = append(m.full[ch], onChats)
	if len(m.full[ch]) != 1 {
		return nil
	}
	if m.persistEnabled() && useDatabase {
		go m.loadFromStore(ch)
		return nil
	}
	return m.reloadLocked(ch)
}

// reloadLocked answers CountLocalOnly callers with CountUnknown and starts
// the remote fetch.
func (m *Manager) reloadLocked(ch ChannelID) []func() {
	var run []func()
	if q, ok := m.counts[CountLocalOnly][ch]; ok {
		delete(m.counts[CountLocalOnly], ch)
		for _, cb := range q {
			run = append(run, func() { cb(CountUnknown, nil) })
		}
	}
	go m.fetch(ch)
	return run
}

// finishLocked drains every queue for ch with a successful result: counts
// first, then the full-list queue, each in FIFO order.
func (m *Manager) finishLocked(ch ChannelID, total int32, dialogs []DialogID) []func() {
	var run []func()
	for mode := range m.counts {
		q, ok := m.counts[mode][ch]
		if !ok {
			continue
		}
		delete(m.counts[mode], ch)
		for _, cb := range q {
			run = append(run, func() { cb(total, nil) })
		}
	}
	q := m.full[ch]
	delete(m.full, ch)
	for _, cb := range q {
		if cb == nil {
			continue
		}
		ds := cloneDialogs(dialogs)
		run = append(run, func() { cb(Chats{TotalCount: total, Dialogs: ds}, nil) })
	}
	return run
}

// failLocked drains every queue for ch with err. The cache is not touched.
func (m *Manager) failLocked(ch ChannelID, err error) []func() {
	var run []func()
	for mode := range m.counts {
		q, ok := m.counts[mode][ch]
		if !ok {
			continue
		}
		delete(m.counts[mode], ch)
		for _, cb := range q {
			run = append(run, func() { cb(0, err) })
		}
	}
	q := m.full[ch]
	delete(m.full, ch)
	for _, cb := range q {
		if cb == nil {
			continue
		}
		run = append(run, func() { cb(Chats{}, err) })
	}
	return run
}

func serveThunks(total int32, dialogs []DialogID, onChats ChatsFunc, onCount CountFunc) []func() {
	var run []func()
	if onChats != nil {
		ds := cloneDialogs(dialogs)
		run = append(run, func() { onChats(Chats{TotalCount: total, Dialogs: ds}, nil) })
	}
	if onCount != nil {
		run = append(run, func() { onCount(total, nil) })
	}
	return run
}

func resolveErr(onChats ChatsFunc, onCount CountFunc, err error) {
	if onChats != nil {
		onChats(Chats{}, err)
	}
	if onCount != nil {
		onCount(0, err)
	}
}

func resolveEmpty(onChats ChatsFunc, onCount CountFunc) {
	if onChats != nil {
		onChats(Chats{}, nil)
	}
	if onCount != nil {
		onCount(0, nil)
	}
}

func runAll(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
