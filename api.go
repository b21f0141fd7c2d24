package recocache

import (
	"time"

	"github.com/unkn0wn-root/recocache/store"
)

// Options tune the behavior of the Manager.
// Only Directory and Fetcher are required; others have sensible defaults.
type Options struct {
	// Required
	Directory Directory
	Fetcher   Fetcher

	// Store persists recommendation lists across restarts. Optional.
	Store store.Store
	// MessageDB gates persistence the way the hosting application gates
	// its message history database: the Store is read and written only
	// when it is configured AND MessageDB is true. A configured Store
	// with MessageDB false is purged of recommendation keys at
	// construction.
	MessageDB bool

	Premium PremiumSource // nil => never premium
	Sink    EventSink     // nil => open events are discarded
	Codec   Codec         // nil => Binary{}
	Logger  Logger        // if nil, NopLogger is used
	Hooks   Hooks         // if nil, NopHooks is used

	CacheTime time.Duration // freshness window of a fetched list; 0 => 24h
	KeyPrefix string        // storage key prefix; "" => "channel_recommendations"
}

// New builds a Manager.
func New(opts Options) (*Manager, error) {
	return newManager(opts)
}
