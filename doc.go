// Package recocache implements a per-channel cache for "recommended channels"
// lists. The slow remote fetch runs at most once per channel no matter how
// many callers ask concurrently, every cached answer is revalidated against
// live membership and access state before it is served, and an optional byte
// store keeps lists across restarts.
//
// Components:
//   - Directory: dialog and channel state (existence, membership, access).
//   - Fetcher: the remote recommendation query.
//   - store.Store: byte store for persisted lists (e.g. Redis, BigCache).
//   - Codec: (de)serializes cached lists. Binary (flag-based envelope) by
//     default; CBOR, Msgpack, Proto and JSON variants live under codecs.
//
// Keys:
//
//	channel_recommendations<channel id>  - one persisted entry per channel
//
// Request flow:
//
//	cached + fresh       -> serve
//	cached + stale       -> serve, then refresh with no caller attached
//	cached + unsuitable  -> drop, erase persisted copy, refetch
//	absent               -> queue the caller; first in line starts one load
//	                        (persisted copy first on a cold read, then remote)
package recocache
