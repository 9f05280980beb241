// Package apportion turns support into seats and keeps the legislature at
// its fixed size when laws move seats around.
package apportion

import (
	"math"
	"sort"
)

// LargestRemainder allocates total seats in proportion to support using the
// Hare quota. Zero total support is treated as 1, leaving every party with
// floor(0) seats plus remainder awards. Ties on remainder keep input order.
func LargestRemainder(support []float64, total int) []int {
	seats := make([]int, len(support))
	if len(support) == 0 || total <= 0 {
		return seats
	}

	var sum float64
	for _, s := range support {
		sum += max(s, 0)
	}
	if sum == 0 {
		sum = 1
	}

	type share struct {
		idx       int
		remainder float64
	}
	shares := make([]share, len(support))
	allocated := 0
	for i, s := range support {
		exact := max(s, 0) / sum * float64(total)
		seats[i] = int(math.Floor(exact))
		allocated += seats[i]
		shares[i] = share{idx: i, remainder: exact - math.Floor(exact)}
	}

	sort.SliceStable(shares, func(a, b int) bool { return shares[a].remainder > shares[b].remainder })
	for i := 0; allocated < total; i = (i + 1) % len(shares) {
		seats[shares[i].idx]++
		allocated++
	}
	return seats
}

// Transfer applies delta seats to every index in targets (clamped at zero)
// and spreads the negated net change over the remaining parties in
// proportion to their seats. The rounding remainder of that spread goes to
// the first unaffected party. seats is modified in place.
func Transfer(seats []int, targets []int, delta int) {
	affected := make(map[int]bool, len(targets))
	net := 0
	for _, i := range targets {
		if i < 0 || i >= len(seats) || affected[i] {
			continue
		}
		affected[i] = true
		before := seats[i]
		seats[i] = max(0, seats[i]+delta)
		net += seats[i] - before
	}
	if net == 0 {
		return
	}

	var others []int
	pool := 0
	for i := range seats {
		if !affected[i] {
			others = append(others, i)
			pool += seats[i]
		}
	}
	if len(others) == 0 {
		return
	}

	spread := -net
	given := 0
	for _, i := range others {
		share := 0
		if pool > 0 {
			share = roundHalfUp(float64(spread) * float64(seats[i]) / float64(pool))
		}
		seats[i] += share
		given += share
	}
	first := others[0]
	seats[first] += spread - given
	for _, i := range others {
		if seats[i] < 0 {
			seats[i] = 0
		}
	}
}

// Reconcile forces the sum of seats to total by adjusting seats[anchor].
// A deficit the anchor cannot absorb is taken from the other parties,
// largest first, never below zero. It returns the correction applied;
// callers log non-zero results.
func Reconcile(seats []int, total, anchor int) int {
	if anchor < 0 || anchor >= len(seats) {
		return 0
	}
	sum := 0
	for _, s := range seats {
		sum += s
	}
	diff := total - sum
	if diff == 0 {
		return 0
	}
	seats[anchor] += diff
	if seats[anchor] >= 0 {
		return diff
	}
	rest := -seats[anchor]
	seats[anchor] = 0

	order := make([]int, 0, len(seats)-1)
	for i := range seats {
		if i != anchor {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool { return seats[order[a]] > seats[order[b]] })
	for _, i := range order {
		if rest == 0 {
			break
		}
		take := min(rest, seats[i])
		seats[i] -= take
		rest -= take
	}
	return diff
}

// Sum totals seats.
func Sum(seats []int) int {
	n := 0
	for _, s := range seats {
		n += s
	}
	return n
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
