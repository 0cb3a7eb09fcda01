package display

// Region is an independently invalidated part of the screen.
type Region int

// Regions in paint order.
const (
	RegionBackground Region = iota
	RegionClock
	RegionHands
	RegionQuickView
	regionCount
)

func (r Region) String() string {
	switch r {
	case RegionBackground:
		return "background"
	case RegionClock:
		return "clock"
	case RegionHands:
		return "hands"
	case RegionQuickView:
		return "quickview"
	default:
		return "unknown"
	}
}

// State of a region.
type State int

// Region states.
const (
	Clean State = iota
	Dirty
)

func (s State) String() string {
	if s == Dirty {
		return "dirty"
	}

	return "clean"
}

// Regions lists every region in paint order.
func Regions() []Region {
	out := make([]Region, 0, regionCount)
	for r := range regionCount {
		out = append(out, r)
	}

	return out
}
