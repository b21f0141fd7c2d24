package recocache

import "context"

// Directory is the manager's window into the surrounding chat system: it
// resolves dialog identities and answers channel-state questions.
//
// Implementations must be fast, local, and safe for concurrent use. Methods
// may be called with the manager's internal lock held and must never call
// back into the Manager.
type Directory interface {
	// HasDialog reports whether the dialog is known locally, loading it
	// from local storage if needed.
	HasDialog(id DialogID) bool

	// RegisterDialog makes a remotely received dialog addressable locally.
	// Called for every candidate a fetch returns, kept or not.
	RegisterDialog(id DialogID)

	// ResolveDialog re-establishes a dialog referenced by a persisted
	// entry. False means the dialog cannot be reconstructed from local
	// data; the entry referencing it is then discarded.
	ResolveDialog(id DialogID) bool

	// IsBroadcastChannel reports whether ch is a broadcast channel rather
	// than a supergroup.
	IsBroadcastChannel(ch ChannelID) bool

	// HasChannelAccess reports whether ch can be addressed remotely at all.
	HasChannelAccess(ch ChannelID) bool

	// IsChannelMember reports whether the current user participates in ch.
	IsChannelMember(ch ChannelID) bool

	// CanReadChannel reports whether the current user may read ch.
	CanReadChannel(ch ChannelID) bool
}

// Fetcher runs the remote recommendation query.
type Fetcher interface {
	// FetchRecommendations returns the size of the full recommendation set
	// for ch and the channels the service chose to return, which may be
	// fewer. The manager hands err to every waiting caller of ch exactly
	// as returned; transport-level access bookkeeping is the
	// implementation's job.
	FetchRecommendations(ctx context.Context, ch ChannelID) (totalCount int32, channels []ChannelID, err error)
}

// PremiumSource exposes the premium state of the current user. It is
// consulted on every cache validation, so flips take effect on the next
// read.
type PremiumSource interface {
	IsPremium() bool
}

// EventSink receives application analytics events.
type EventSink interface {
	SaveAppLog(ctx context.Context, event AppEvent) error
}

// AppEvent is a single analytics submission.
type AppEvent struct {
	Type string
	Peer DialogID // the dialog the event belongs to; zero when unbound
	Data map[string]string
}

// EventOpenRecommendedChannel is emitted when a recommended channel is
// opened from another channel's recommendation list.
const EventOpenRecommendedChannel = "channels.open_recommended_channel"
