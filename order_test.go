package bigexpr

import (
	"reflect"
	"testing"
)

func TestMinTemps3(t *testing.T) {
	for t1 := 0; t1 <= 6; t1++ {
		for t2 := 0; t2 <= 6; t2++ {
			for t3 := 0; t3 <= 6; t3++ {
				kids := []demand{{t1, true}, {t2, true}, {t3, true}}
				_, most, _ := bestOrder(kids)
				want := imax(most, 3)
				if got := minTemps3(t1, t2, t3); got != want {
					t.Errorf("minTemps3(%d, %d, %d): want %d, got %d", t1, t2, t3, want, got)
				}
				o := order3(t1, t2, t3)
				if m, _ := peak(kids, o); imax(m, 3) != want {
					t.Errorf("order3(%d, %d, %d) = %v peaks at %d, want %d", t1, t2, t3, o, m, want)
				}
			}
		}
	}
}

func TestOrder3(t *testing.T) {
	cases := []struct {
		t    [3]int
		want []int
	}{
		{[3]int{1, 2, 3}, []int{2, 1, 0}},
		{[3]int{3, 2, 1}, []int{0, 1, 2}},
		{[3]int{2, 2, 2}, []int{0, 1, 2}},
		{[3]int{1, 3, 1}, []int{1, 0, 2}},
		{[3]int{0, 4, 4}, []int{1, 2, 0}},
	}
	for _, c := range cases {
		if got := order3(c.t[0], c.t[1], c.t[2]); !reflect.DeepEqual(got, c.want) {
			t.Errorf("order3(%v): want %v, got %v", c.t, c.want, got)
		}
	}
}

func TestBestOrder(t *testing.T) {
	cases := []struct {
		name  string
		kids  []demand
		order []int
		most  int
		held  int
	}{
		{"none", nil, nil, 0, 0},
		{"one", []demand{{2, true}}, []int{0}, 2, 1},
		{"leaves", []demand{{0, false}, {0, false}}, []int{0, 1}, 0, 0},
		{"tie", []demand{{1, true}, {1, true}}, []int{0, 1}, 2, 2},
		{"heavy-right", []demand{{1, true}, {3, true}}, []int{1, 0}, 3, 2},
		{"heavy-left", []demand{{3, true}, {1, true}}, []int{0, 1}, 3, 2},
		{"leaf-first-free", []demand{{0, false}, {2, true}}, []int{0, 1}, 2, 1},
		{"three", []demand{{1, true}, {2, true}, {2, true}}, []int{1, 2, 0}, 3, 3},
		{"acc-in-dst", []demand{{1, false}, {0, false}, {2, true}}, []int{0, 1, 2}, 2, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			order, most, held := bestOrder(c.kids)
			if !reflect.DeepEqual(order, c.order) && !(len(order) == 0 && len(c.order) == 0) {
				t.Errorf("wrong order: want %v, got %v", c.order, order)
			}
			if most != c.most || held != c.held {
				t.Errorf("wrong cost: want (%d, %d), got (%d, %d)", c.most, c.held, most, held)
			}
		})
	}
}
