package bigexpr

import "sort"

// demand describes what one child of a plan step costs while its siblings
// are evaluated: need is the most slots it uses at once, and holds is whether
// its finished result keeps a slot until the parent's call.
type demand struct {
	need  int
	holds bool
}

// peak returns the most slots in use while evaluating children in the given
// order, and the number of slots still held when the last one finishes.
func peak(kids []demand, order []int) (most, held int) {
	for _, i := range order {
		if n := held + kids[i].need; n > most {
			most = n
		}
		if kids[i].holds {
			held++
		}
	}
	return most, held
}

// bestOrder chooses the order in which to evaluate up to three children.
// Every permutation is tried, and the first one with the least peak wins, so
// ties keep left before right.
func bestOrder(kids []demand) (order []int, most, held int) {
	switch len(kids) {
	case 0:
		return nil, 0, 0
	case 1:
		most, held = peak(kids, identity[:1])
		return identity[:1], most, held
	}
	most = -1
	for _, p := range perms[len(kids)] {
		m, h := peak(kids, p)
		if most < 0 || m < most {
			order, most, held = p, m, h
		}
	}
	return order, most, held
}

var identity = [3]int{0, 1, 2}

// perms lists permutations of 2 and 3 elements in lexicographic order.
var perms = [4][][]int{
	2: {{0, 1}, {1, 0}},
	3: {{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}},
}

// minTemps3 returns the fewest slots with which three subexpressions, needing
// t1, t2, and t3 slots each and each holding its result until all three are
// done, can be evaluated. Three slots are always needed to hold the results.
func minTemps3(t1, t2, t3 int) int {
	t := [3]int{t1, t2, t3}
	sort.Sort(sort.Reverse(sort.IntSlice(t[:])))
	a, b, c := t[0], t[1], t[2]
	switch {
	case a == b && b == c:
		return imax(a+2, 3)
	case a == b:
		return imax(a+1, 3)
	case b == c:
		return imax(a, imax(b+2, 3))
	default:
		return imax(3, a)
	}
}

// order3 returns the order in which to evaluate three subexpressions needing
// t1, t2, and t3 slots to achieve minTemps3: the greatest first, with equal
// needs in their original order.
func order3(t1, t2, t3 int) []int {
	t := [3]int{t1, t2, t3}
	o := []int{0, 1, 2}
	sort.SliceStable(o, func(i, j int) bool { return t[o[i]] > t[o[j]] })
	return o
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
