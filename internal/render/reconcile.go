package render

import (
	"sort"

	"github.com/ziadkadry99/officespace/internal/floorplan"
)

// Ops is the difference between two renderings of a floor.
type Ops struct {
	Create []Group  `json:"create"`
	Update []Group  `json:"update"`
	Delete []string `json:"delete"`
	Keep   []string `json:"keep"`
}

// Empty reports whether applying the ops would change nothing.
func (o Ops) Empty() bool {
	return len(o.Create) == 0 && len(o.Update) == 0 && len(o.Delete) == 0
}

// Reconcile diffs the previous keyed set against the next rendering.
// Create, Update and Keep follow the order of next; Delete is in natural ID
// order. A duplicate ID in next keeps its first position and last content.
func Reconcile(prev map[string]Group, next []Group) Ops {
	next = dedupe(next)

	ops := Ops{}
	present := make(map[string]bool, len(next))
	for _, g := range next {
		present[g.ID] = true
		old, ok := prev[g.ID]
		switch {
		case !ok:
			ops.Create = append(ops.Create, g)
		case !old.Equal(g):
			ops.Update = append(ops.Update, g)
		default:
			ops.Keep = append(ops.Keep, g.ID)
		}
	}

	for id := range prev {
		if !present[id] {
			ops.Delete = append(ops.Delete, id)
		}
	}
	sort.Slice(ops.Delete, func(i, j int) bool { return floorplan.NaturalLess(ops.Delete[i], ops.Delete[j]) })
	return ops
}

func dedupe(gs []Group) []Group {
	index := make(map[string]int, len(gs))
	out := make([]Group, 0, len(gs))
	for _, g := range gs {
		if i, ok := index[g.ID]; ok {
			out[i] = g
			continue
		}
		index[g.ID] = len(out)
		out = append(out, g)
	}
	return out
}
