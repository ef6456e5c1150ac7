// Package leveling decides bid coverage, gap costs, winners and portfolio risk from a session's state.
package leveling

import (
	"leveler/internal"
	"leveler/internal/util"
)

// Classify decides how one bid treats one scope item.
// Exclusions win over inclusions; only GAP items are ever charged.
func Classify(itemName string, bid internal.BidEntry) internal.CoverageStatus {
	name := util.NormalizeLine(itemName)

	if matchesAny(name, bid.Exclusions) {
		return internal.StatusExcluded
	}
	if matchesAny(name, bid.Inclusions) {
		return internal.StatusIncluded
	}
	if !bid.Active() {
		return internal.StatusNotBid
	}
	if len(bid.Inclusions) == 0 {
		return internal.StatusUndetermined
	}
	return internal.StatusGap
}

func matchesAny(name string, lines []string) bool {
	for _, line := range lines {
		if util.ContainsEither(name, util.NormalizeLine(line)) {
			return true
		}
	}
	return false
}
