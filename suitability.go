package recocache

// suitableChannel reports whether a channel may appear in recommendations:
// the current user does not participate in it but may still read it.
func (m *Manager) suitableChannel(ch ChannelID) bool {
	return !m.dir.IsChannelMember(ch) && m.dir.CanReadChannel(ch)
}

// suitableDialogs reports whether a cached list is still servable. Every
// member must be a suitable channel; an incomplete list is servable only
// for non-premium users.
func (m *Manager) suitableDialogs(rec *RecommendedDialogs) bool {
	for _, d := range rec.Dialogs {
		if !d.IsChannel() || !m.suitableChannel(ChannelID(d.ID)) {
			return false
		}
	}
	haveAll := int32(len(rec.Dialogs)) == rec.TotalCount
	return haveAll || !m.isPremium()
}

func (m *Manager) isPremium() bool {
	return m.premium != nil && m.premium.IsPremium()
}
