package listing

// Group is a named, closed set of statuses used for list-view filtering.
type Group []Status

var (
	GroupAvailable = Group{StatusActive}
	GroupTrading   = Group{StatusReserved, StatusEscrowCompleted, StatusCancelRequested}
	GroupShipping  = Group{StatusShipping, StatusShipped}
	GroupCompleted = Group{StatusSold}
	GroupCancelled = Group{StatusCancelled}
	GroupHidden    = Group{StatusDeleted}

	// GroupAllActive is every status a buyer may legitimately see in a
	// list view: everything except cancelled and deleted.
	GroupAllActive = Group{
		StatusActive,
		StatusReserved,
		StatusEscrowCompleted,
		StatusShipping,
		StatusShipped,
		StatusSold,
		StatusCancelRequested,
	}
)

var filterGroups = map[string]Group{
	"available": GroupAvailable,
	"trading":   GroupTrading,
	"shipping":  GroupShipping,
	"completed": GroupCompleted,
	"cancelled": GroupCancelled,
	"hidden":    GroupHidden,
	"all":       GroupAllActive,
}

// ResolveFilter maps a UI filter name to the status set used for list
// queries. An unknown or empty name resolves to GroupAllActive: the
// product prefers showing legitimate listings over silently hiding them
// when a filter name is mistyped. Callers that want strictness must
// check KnownFilter first.
func ResolveFilter(name string) Group {
	if g, ok := filterGroups[name]; ok {
		return g
	}
	return GroupAllActive
}

// KnownFilter reports whether name is a recognized filter name.
func KnownFilter(name string) bool {
	_, ok := filterGroups[name]
	return ok
}

// FilterNames returns the recognized filter names.
func FilterNames() []string {
	out := make([]string, 0, len(filterGroups))
	for name := range filterGroups {
		out = append(out, name)
	}
	return out
}

// Contains reports whether the group includes s.
func (g Group) Contains(s Status) bool {
	for _, gs := range g {
		if gs == s {
			return true
		}
	}
	return false
}

// VisibilityClass names the exactly-one visibility bucket of a status.
type VisibilityClass string

const (
	VisibilityAllActive VisibilityClass = "ALL_ACTIVE"
	VisibilityCancelled VisibilityClass = "CANCELLED"
	VisibilityHidden    VisibilityClass = "HIDDEN"
)

// Visibility classifies a status into its visibility bucket. Every known
// status belongs to exactly one bucket; the partition is verified by the
// drift check in stats.go and by tests.
func Visibility(s Status) (VisibilityClass, error) {
	switch {
	case GroupAllActive.Contains(s):
		return VisibilityAllActive, nil
	case GroupCancelled.Contains(s):
		return VisibilityCancelled, nil
	case GroupHidden.Contains(s):
		return VisibilityHidden, nil
	default:
		return "", &UnknownStatusError{Value: string(s)}
	}
}
