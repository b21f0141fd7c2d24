package recocache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking: the manager calls them
// with its internal lock held, and they must not call back into the
// Manager.
type Hooks interface {
	// A persisted entry failed validation after load and was erased.
	// reason ∈ {"decode", "unresolved", "unsuitable"}
	SelfHealStore(ch ChannelID, reason string)

	// An in-memory entry stopped being servable and was dropped.
	CacheDropped(ch ChannelID)

	// The remote reported a total below the length of the list it
	// returned; the total was raised to match.
	TotalCountClamped(ch ChannelID, received, clamped int32)

	// A stale entry was served and a reload with no caller attached was
	// registered. May fire again while that reload is still running.
	BackgroundRefresh(ch ChannelID)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHealStore(ChannelID, string)           {}
func (NopHooks) CacheDropped(ChannelID)                    {}
func (NopHooks) TotalCountClamped(ChannelID, int32, int32) {}
func (NopHooks) BackgroundRefresh(ChannelID)               {}
