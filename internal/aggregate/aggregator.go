package aggregate

import (
	"sort"

	"github.com/cfs-facility/rapportini-service/internal/model"
)

// DayTotals are the derived hour buckets for one date.
//
// MainTableHours includes the hours of extraordinary reports even though
// their per-row value is hidden in the summary table: the row shows a
// redirect placeholder, the total still counts them. That asymmetry is how
// the paper form works and must not be "corrected".
type DayTotals struct {
	MainTableHours          float64
	OnCallInterventionHours float64
	OnCallTravelHours       float64
}

// RowHours is the per-row contribution to the summary table's hours column.
// On-call travel time is folded into the visible row total; it is also
// broken out separately via DayTotals.
func RowHours(r model.Report) float64 {
	if r.WorkType == model.WorkTypeOnCall {
		return r.InterventionHours + r.TravelHours
	}
	return r.InterventionHours
}

// ComputeDayTotals sums the hour buckets over the reports of one date.
// Inputs come at half-hour granularity; halves are exact in float64, so
// plain accumulation loses nothing.
func ComputeDayTotals(reports []model.Report) DayTotals {
	var totals DayTotals
	for _, r := range reports {
		totals.MainTableHours += RowHours(r)
		if r.WorkType == model.WorkTypeOnCall {
			totals.OnCallInterventionHours += r.InterventionHours
			totals.OnCallTravelHours += r.TravelHours
		}
	}
	return totals
}

// GroupByDate groups reports by their exact date string, preserving the
// insertion order within each day so document output stays deterministic.
func GroupByDate(reports []model.Report) map[string][]model.Report {
	groups := make(map[string][]model.Report)
	for _, r := range reports {
		groups[r.Date] = append(groups[r.Date], r)
	}
	return groups
}

// SortedDates returns the group keys newest first.
func SortedDates(groups map[string][]model.Report) []string {
	dates := make([]string, 0, len(groups))
	for date := range groups {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// SplitExtraordinary partitions reports into the main-table stream and the
// extraordinary-form stream, both in their original order.
func SplitExtraordinary(reports []model.Report) (regular, extraordinary []model.Report) {
	for _, r := range reports {
		if r.WorkType == model.WorkTypeExtraordinary {
			extraordinary = append(extraordinary, r)
		} else {
			regular = append(regular, r)
		}
	}
	return regular, extraordinary
}

// SumInterventionHours is the plain intervention-hour sum, used for the
// technician line on the extraordinary form.
func SumInterventionHours(reports []model.Report) float64 {
	total := 0.0
	for _, r := range reports {
		total += r.InterventionHours
	}
	return total
}
