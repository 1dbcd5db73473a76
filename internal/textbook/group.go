package textbook

import (
	"sort"

	"github.com/jackzampolin/coursepack/internal/types"
)

// GroupByWeek partitions rows by week number, ascending. Rows keep their
// lesson plan order within a week. A week takes its date and topic from its
// first row.
func GroupByWeek(rows []types.CanonicalRow) []types.Week {
	byNumber := make(map[int]*types.Week)
	var numbers []int
	for _, r := range rows {
		w, ok := byNumber[r.Week]
		if !ok {
			w = &types.Week{Number: r.Week, Date: r.Date, Topic: r.Topic}
			byNumber[r.Week] = w
			numbers = append(numbers, r.Week)
		}
		w.Rows = append(w.Rows, r.Clone())
	}

	sort.Ints(numbers)
	weeks := make([]types.Week, 0, len(numbers))
	for _, n := range numbers {
		weeks = append(weeks, *byNumber[n])
	}
	return weeks
}
