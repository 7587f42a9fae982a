package identity

type Role string

const (
	RoleViewer Role = "viewer"
	RoleAdmin  Role = "admin"
)

type Capability string

const (
	CapViewRoster Capability = "roster:view"
	CapTrack      Capability = "tracking:run"
)

var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleViewer: {
		CapTrack: {},
	},
	RoleAdmin: {
		CapTrack:      {},
		CapViewRoster: {},
	},
}

// Can reports whether the role grants the capability. Unknown roles grant nothing.
func (r Role) Can(cap Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	_, ok = caps[cap]
	return ok
}
