package render

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/officespace/internal/config"
	"github.com/ziadkadry99/officespace/internal/floorplan"
	"github.com/ziadkadry99/officespace/internal/textwrap"
)

func newTestRenderer() *Renderer {
	return New(floorplan.DefaultGrid, DefaultStyle, textwrap.FixedMeasurer(6), textwrap.FixedMeasurer(5))
}

func office(id string, x, y float64, occ ...floorplan.Occupant) floorplan.Office {
	return floorplan.Office{ID: id, X: x, Y: y, Width: 100, Height: 100, Occupants: occ}
}

func TestDateLabel(t *testing.T) {
	cases := []struct {
		occ  floorplan.Occupant
		want string
		ok   bool
	}{
		{floorplan.Occupant{Temporary: true, StartDate: "2024-01-01", EndDate: "2024-06-30"}, "(2024-01-01 → 2024-06-30)", true},
		{floorplan.Occupant{Temporary: true, StartDate: "2024-01-01"}, "(From 2024-01-01)", true},
		{floorplan.Occupant{Temporary: true, EndDate: "2024-06-30"}, "(Until 2024-06-30)", true},
		{floorplan.Occupant{Temporary: true}, "(Temporary)", true},
		{floorplan.Occupant{StartDate: "2024-01-01"}, "", false},
	}
	for _, tc := range cases {
		got, ok := DateLabel(tc.occ)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.ok, ok)
	}
}

func TestBuildGroupStacksOccupants(t *testing.T) {
	o := office("302", 50, 50,
		floorplan.Occupant{Name: "Alice"},
		floorplan.Occupant{Name: "Bob", Temporary: true},
		floorplan.Occupant{},
	)
	g := BuildGroup(o, DefaultStyle, textwrap.FixedMeasurer(6), textwrap.FixedMeasurer(5))

	require.Len(t, g.Occupants, 3)
	assert.True(t, g.Occupied)
	assert.Equal(t, "office-group occupied", g.Class())
	assert.Equal(t, "office occupied", g.RectClass())

	// Alice: one name line at 28, then 11 + 5 spacing.
	assert.Equal(t, []textwrap.Line{{Text: "Alice", Y: 28}}, g.Occupants[0].Name)
	assert.Empty(t, g.Occupants[0].Dates)

	// Bob starts at 44; his date line follows at 55.
	assert.Equal(t, []textwrap.Line{{Text: "Bob", Y: 44}}, g.Occupants[1].Name)
	assert.Equal(t, []textwrap.Line{{Text: "(Temporary)", Y: 55}}, g.Occupants[1].Dates)

	// 55 + 10 + 5.
	assert.Equal(t, []textwrap.Line{{Text: "Unnamed", Y: 70}}, g.Occupants[2].Name)
}

func TestBuildGroupWrapsToPaddedWidth(t *testing.T) {
	// 90px available at 6px per rune: 15 runes per line.
	o := office("330", 0, 0, floorplan.Occupant{Name: "Maximilian Alexander Featherstonehaugh"})
	g := BuildGroup(o, DefaultStyle, textwrap.FixedMeasurer(6), textwrap.FixedMeasurer(5))
	lines := g.Occupants[0].Name
	require.Len(t, lines, 3)
	assert.Equal(t, "Maximilian", lines[0].Text)
	assert.Equal(t, 39.0, lines[1].Y)
	assert.Equal(t, "Featherstonehaugh", lines[2].Text)
}

func TestBuildGroupEmptyOffice(t *testing.T) {
	g := BuildGroup(office("303", 0, 0), DefaultStyle, textwrap.FixedMeasurer(6), textwrap.FixedMeasurer(5))
	assert.False(t, g.Occupied)
	assert.Equal(t, "office-group", g.Class())
	assert.Equal(t, "office", g.RectClass())
	assert.Empty(t, g.Occupants)
}

func TestReconcile(t *testing.T) {
	r := newTestRenderer()
	a := r.Build([]floorplan.Office{office("302", 50, 50)})[0]
	b := r.Build([]floorplan.Office{office("303", 170, 50)})[0]
	c := r.Build([]floorplan.Office{office("304", 290, 50)})[0]
	prev := map[string]Group{"302": a, "303": b, "304": c}

	b2 := r.Build([]floorplan.Office{office("303", 170, 50, floorplan.Occupant{Name: "Alice"})})[0]
	d := r.Build([]floorplan.Office{office("305", 410, 50)})[0]

	ops := Reconcile(prev, []Group{a, b2, d})
	assert.Equal(t, []Group{d}, ops.Create)
	assert.Equal(t, []Group{b2}, ops.Update)
	assert.Equal(t, []string{"304"}, ops.Delete)
	assert.Equal(t, []string{"302"}, ops.Keep)
	assert.False(t, ops.Empty())
}

func TestReconcileUnchangedIsEmpty(t *testing.T) {
	r := newTestRenderer()
	groups := r.Build([]floorplan.Office{office("302", 50, 50), office("303", 170, 50)})
	prev := map[string]Group{"302": groups[0], "303": groups[1]}
	ops := Reconcile(prev, groups)
	assert.True(t, ops.Empty())
	assert.Equal(t, []string{"302", "303"}, ops.Keep)
}

func TestReconcileDeleteOrderIsNatural(t *testing.T) {
	prev := map[string]Group{"10": {ID: "10"}, "9": {ID: "9"}, "303A": {ID: "303A"}, "303": {ID: "303"}}
	ops := Reconcile(prev, nil)
	assert.Equal(t, []string{"9", "10", "303", "303A"}, ops.Delete)
}

func TestReconcileDuplicateIDs(t *testing.T) {
	first := Group{ID: "302", X: 1}
	last := Group{ID: "302", X: 2}
	ops := Reconcile(nil, []Group{first, {ID: "303"}, last})
	require.Len(t, ops.Create, 2)
	assert.Equal(t, last, ops.Create[0])
	assert.Equal(t, "303", ops.Create[1].ID)
}

func TestRendererRenderAppliesOps(t *testing.T) {
	r := newTestRenderer()
	ops := r.Render([]floorplan.Office{office("302", 50, 50), office("303", 170, 50)})
	assert.Len(t, ops.Create, 2)
	assert.Len(t, r.Groups(), 2)

	// Same input again: nothing to do.
	ops = r.Render([]floorplan.Office{office("302", 50, 50), office("303", 170, 50)})
	assert.True(t, ops.Empty())

	// Switch to a different floor: old groups go, new ones come.
	ops = r.Render([]floorplan.Office{office("402", 50, 50)})
	assert.Equal(t, []string{"302", "303"}, ops.Delete)
	assert.Len(t, ops.Create, 1)
	assert.Equal(t, "402", r.Groups()[0].ID)
	assert.Len(t, r.Snapshot(), 1)
}

func TestRendererSize(t *testing.T) {
	r := newTestRenderer()
	w, h := r.Size()
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 100.0, h)

	r.Render([]floorplan.Office{office("302", 50, 50), office("303", 170, 180)})
	w, h = r.Size()
	assert.Equal(t, 320.0, w)
	assert.Equal(t, 330.0, h)
}

func TestWriteSVGIsWellFormed(t *testing.T) {
	r := newTestRenderer()
	r.Render([]floorplan.Office{
		office("302", 50, 50, floorplan.Occupant{Name: "Ann & <Bob>", Temporary: true, StartDate: "2024-01-01"}),
		office("303", 170, 50),
	})
	var buf bytes.Buffer
	require.NoError(t, r.WriteSVG(&buf))
	out := buf.String()

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}

	assert.Contains(t, out, `width="320" height="200"`)
	assert.Contains(t, out, `id="office-302" class="office-group occupied"`)
	assert.Contains(t, out, `id="office-303" class="office-group"`)
	assert.Contains(t, out, "Ann &amp; &lt;Bob&gt;")
	assert.Contains(t, out, "(From 2024-01-01)")
	assert.Less(t, strings.Index(out, "office-302"), strings.Index(out, "office-303"))
}

func TestWriteSVGEmptyFloor(t *testing.T) {
	r := newTestRenderer()
	r.Render(nil)
	var buf bytes.Buffer
	require.NoError(t, r.WriteSVG(&buf))
	assert.Contains(t, buf.String(), `width="100" height="100"`)
	assert.NotContains(t, buf.String(), "office-group")
}

func TestForkIsIndependent(t *testing.T) {
	r := newTestRenderer()
	r.Render([]floorplan.Office{office("302", 50, 50)})
	f := r.Fork()
	assert.Empty(t, f.Groups())
	f.Render([]floorplan.Office{office("402", 50, 50)})
	assert.Equal(t, "302", r.Groups()[0].ID)
}

func TestStyleFromConfig(t *testing.T) {
	s := StyleFromConfig(config.DefaultConfig().Text)
	assert.Equal(t, DefaultStyle, s)
}

func TestNewWithFonts(t *testing.T) {
	r, err := NewWithFonts(floorplan.DefaultGrid, DefaultStyle)
	require.NoError(t, err)
	ops := r.Render([]floorplan.Office{office("302", 50, 50, floorplan.Occupant{Name: "Alice Smith"})})
	require.Len(t, ops.Create, 1)
	assert.Equal(t, "Alice Smith", ops.Create[0].Occupants[0].Name[0].Text)
}
