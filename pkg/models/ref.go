package models

// NoID is the sentinel the wire format uses for "not this kind of
// container" (channelId/dmId pairs where exactly one side is set) and for
// a DM whose owner has left.
const NoID int64 = -1

// ContainerKind discriminates the two message-holding entities.
type ContainerKind int

const (
	KindNone ContainerKind = iota
	KindChannel
	KindDM
)

// ContainerRef is an explicit tagged reference to a channel or DM. The wire
// format encodes it as a (channelId, dmId) pair with one side NoID; keeping
// the variant explicit internally avoids the pair-of-nullable-ints
// convention leaking through the core.
type ContainerRef struct {
	Kind ContainerKind
	ID   int64
}

func ChannelRef(id int64) ContainerRef { return ContainerRef{Kind: KindChannel, ID: id} }
func DMRef(id int64) ContainerRef      { return ContainerRef{Kind: KindDM, ID: id} }

// ChannelID returns the wire channelId for this ref (NoID unless a channel).
func (r ContainerRef) ChannelID() int64 {
	if r.Kind == KindChannel {
		return r.ID
	}
	return NoID
}

// DMID returns the wire dmId for this ref (NoID unless a DM).
func (r ContainerRef) DMID() int64 {
	if r.Kind == KindDM {
		return r.ID
	}
	return NoID
}
