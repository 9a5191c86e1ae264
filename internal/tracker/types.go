package tracker

// AssetType distinguishes the two workitem kinds the tracker exposes.
type AssetType string

const (
	AssetStory  AssetType = "Story"
	AssetDefect AssetType = "Defect"
)

// TicketData is an immutable snapshot of one remote workitem. It is rebuilt
// wholesale on every fetch and never partially mutated.
type TicketData struct {
	Label       string
	Number      string
	AssetID     string
	Status      string
	Project     string
	URL         string
	AssetType   AssetType
	Description string
}

// StatusInfo is one workflow status of a team as reported by the tracker.
type StatusInfo struct {
	ID        string
	Name      string
	Order     int
	ColorName string // optional, remote display color name
}

// MemberInfo is a directory entry for a tracker member.
type MemberInfo struct {
	ID       string
	Name     string
	Username string
}

// TeamInfo is a directory entry for a tracker team.
type TeamInfo struct {
	ID   string
	Name string
}

// RawAsset is the wire shape of one asset record: an id plus a bag of
// attributes keyed by name. Typed values are produced by the mapper.
type RawAsset struct {
	ID         string                  `json:"id"`
	Href       string                  `json:"href"`
	Attributes map[string]RawAttribute `json:"Attributes"`
}

// RawAttribute holds a single attribute value. The tracker encodes scalars
// directly and multi-valued relations as arrays; both land in Value.
type RawAttribute struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type assetsResponse struct {
	Assets []RawAsset `json:"Assets"`
}
