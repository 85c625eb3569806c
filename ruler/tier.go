// ABOUTME: Tick height tiers derived from tick index divisibility
// ABOUTME: Full lines every division, mid lines every half division, small otherwise

package ruler

// Tier is the visual height class of a tick
type Tier int

// Tick tiers, tallest first
const (
	TierFull Tier = iota
	TierMid
	TierSmall
)

func (t Tier) String() string {
	switch t {
	case TierFull:
		return "full"
	case TierMid:
		return "mid"
	default:
		return "small"
	}
}

// Classify returns the tier of the tick at index.
//
// Odd divisions are accepted; divisions/2 truncates, so mid lines then fall at
// uneven distances from the surrounding full lines.
func Classify(index, divisions int) Tier {
	if index == 0 {
		return TierFull
	}

	if divisions <= 0 {
		return TierSmall
	}

	if index%divisions == 0 {
		return TierFull
	}

	mid := divisions / 2
	if mid > 0 && index%mid == 0 {
		return TierMid
	}

	return TierSmall
}
