package recocache

import "time"

// ChannelID identifies a broadcast channel. Channel recommendations are
// cached per ChannelID.
type ChannelID int64

// DialogKind is the category of a dialog.
type DialogKind uint8

const (
	DialogUser DialogKind = iota + 1
	DialogGroup
	DialogChannel
)

// Valid reports whether k is one of the defined dialog kinds.
func (k DialogKind) Valid() bool { return k >= DialogUser && k <= DialogChannel }

// DialogID identifies a dialog of any kind. The zero value identifies
// nothing.
type DialogID struct {
	Kind DialogKind
	ID   int64
}

// ChannelDialogID returns the DialogID addressing ch.
func ChannelDialogID(ch ChannelID) DialogID {
	return DialogID{Kind: DialogChannel, ID: int64(ch)}
}

// IsChannel reports whether d addresses a channel.
func (d DialogID) IsChannel() bool { return d.Kind == DialogChannel }

// Chats is the result of a full-list recommendation request. TotalCount is
// the size of the complete recommendation set, which may exceed len(Dialogs)
// when the remote returned only a prefix.
type Chats struct {
	TotalCount int32
	Dialogs    []DialogID
}

// RecommendedDialogs is one cached recommendation list. NextReload is the
// instant the entry turns stale; a stale entry is still served while a
// refresh runs behind it. TotalCount is never below len(Dialogs).
type RecommendedDialogs struct {
	Dialogs    []DialogID
	TotalCount int32
	NextReload time.Time
}

func cloneDialogs(ds []DialogID) []DialogID {
	if len(ds) == 0 {
		return nil
	}
	out := make([]DialogID, len(ds))
	copy(out, ds)
	return out
}
