// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bgg-tellico/pkg/types"
)

func column(tb *Table, col int) []string {
	var out []string
	for _, r := range tb.Rows {
		out = append(out, r.Cells[col])
	}
	return out
}

func classes(tb *Table) []string {
	var out []string
	for _, r := range tb.Rows {
		out = append(out, r.Class)
	}
	return out
}

func TestSort_ByType(t *testing.T) {
	tests := []struct {
		name  string
		typ   ColumnType
		cells []string
		want  []string
	}{
		{
			name:  "text ignores case",
			typ:   Text,
			cells: []string{"banana", "Apple", "cherry"},
			want:  []string{"Apple", "banana", "cherry"},
		},
		{
			name:  "numeric with unparseable as zero",
			typ:   Numeric,
			cells: []string{"10", "9", "n/a", "-1"},
			want:  []string{"-1", "n/a", "9", "10"},
		},
		{
			name:  "numeric prefix",
			typ:   Numeric,
			cells: []string{"12 players", "3.5kg", "4"},
			want:  []string{"3.5kg", "4", "12 players"},
		},
		{
			name:  "currency strips symbols",
			typ:   Currency,
			cells: []string{"$1,200.00", "$35.50", "€9"},
			want:  []string{"€9", "$35.50", "$1,200.00"},
		},
		{
			name:  "date with two digit year pivot",
			typ:   Date,
			cells: []string{"01/01/49", "31/12/50", "15/06/1999", "2/3/2001"},
			want:  []string{"31/12/50", "15/06/1999", "2/3/2001", "01/01/49"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows [][]string
			for _, c := range tt.cells {
				rows = append(rows, []string{c})
			}
			tb := New([]Column{{Name: "c", Type: tt.typ}}, rows)
			require.NoError(t, tb.Sort(0, false))
			assert.Equal(t, tt.want, column(tb, 0))
		})
	}
}

func TestSort_DescendingReversesStableAscending(t *testing.T) {
	tb := New([]Column{{Name: "k", Type: Numeric}, {Name: "tag", Type: Text}}, [][]string{
		{"2", "a"}, {"1", "b"}, {"2", "c"}, {"1", "d"},
	})

	require.NoError(t, tb.Sort(0, false))
	assert.Equal(t, []string{"b", "d", "a", "c"}, column(tb, 1))

	require.NoError(t, tb.Sort(0, true))
	// The second sort starts from the ascending order and reverses it.
	assert.Equal(t, []string{"c", "a", "d", "b"}, column(tb, 1))
}

func TestSort_OutOfRange(t *testing.T) {
	tb := New([]Column{{Name: "c"}}, nil)
	assert.Error(t, tb.Sort(1, false))
	assert.Error(t, tb.Sort(-1, false))
}

func TestFilter(t *testing.T) {
	tb := New([]Column{{Name: "Title"}, {Name: "Designer"}}, [][]string{
		{"Catan", "Klaus Teuber"},
		{"Carcassonne", "Klaus-Jürgen Wrede"},
		{"Agricola", "Uwe Rosenberg"},
		{"Catan Card Game", "Klaus Teuber"},
	})

	visible := tb.Filter("teuber")
	assert.Equal(t, 2, visible)
	assert.Equal(t, []string{ClassEven, ClassHidden, ClassHidden, ClassOdd}, classes(tb))

	visible = tb.Filter("^ca")
	assert.Equal(t, 3, visible)
	assert.Equal(t, []string{ClassEven, ClassOdd, ClassHidden, ClassEven}, classes(tb))

	visible = tb.Filter("")
	assert.Equal(t, 4, visible)
	assert.Equal(t, []string{ClassEven, ClassOdd, ClassEven, ClassOdd}, classes(tb))
}

func TestFilter_InvalidPatternMatchesLiterally(t *testing.T) {
	tb := New([]Column{{Name: "Title"}}, [][]string{{"Dune (1979"}, {"Dune"}})
	assert.Equal(t, 1, tb.Filter("(1979"))
	assert.False(t, tb.Rows[0].Hidden)
	assert.True(t, tb.Rows[1].Hidden)
}

func TestFromGames(t *testing.T) {
	tb := FromGames([]types.Game{
		{ID: "13", Name: "Catan", Year: 1995, Publishers: []string{"KOSMOS", "Mayfair"}, Players: []int{3, 4}},
		{ID: "278", Name: "Catan Card Game", Players: []int{2}},
	})

	require.Len(t, tb.Rows, 2)
	assert.Equal(t, []string{"Catan", "1995", "KOSMOS; Mayfair", "", "3-4", "13"}, tb.Rows[0].Cells)
	assert.Equal(t, "", tb.Rows[1].Cells[1])
	assert.Equal(t, "2", tb.Rows[1].Cells[4])
	assert.Equal(t, 5, tb.ColumnIndex("bgg id"))
	assert.Equal(t, -1, tb.ColumnIndex("rating"))
}

func TestRender(t *testing.T) {
	tb := FromGames([]types.Game{
		{ID: "13", Name: "Catan"},
		{ID: "822", Name: "Carcassonne <Big Box>"},
	})
	require.NoError(t, tb.Sort(0, false))
	tb.Filter("catan")

	var buf bytes.Buffer
	require.NoError(t, tb.Render(&buf, View{
		Title:      "Board games",
		Path:       "/games",
		Query:      "ca",
		SortColumn: 0,
		SearchText: "catan",
	}))
	html := buf.String()

	assert.Contains(t, html, "Carcassonne &lt;Big Box&gt;")
	assert.Contains(t, html, `<tr class="hidden">`)
	assert.Contains(t, html, `<tr class="entry0">`)
	assert.Contains(t, html, "1 of 2 shown")
	// Active column links to the opposite direction.
	assert.Contains(t, html, `href="/games?dir=desc&amp;q=ca&amp;searchText=catan&amp;sort=0"`)
	assert.Contains(t, html, `href="/games?dir=asc&amp;q=ca&amp;searchText=catan&amp;sort=1"`)
	assert.Equal(t, 1, strings.Count(html, "▲"))
}

func TestFromGames_PlayersSortNumerically(t *testing.T) {
	tb := FromGames([]types.Game{
		{ID: "1", Name: "Big", Players: []int{10, 11, 12}},
		{ID: "2", Name: "Small", Players: []int{2, 3, 4}},
		{ID: "3", Name: "Solo", Players: []int{1}},
	})
	players := tb.ColumnIndex("players")
	assert.Equal(t, Numeric, tb.Columns[players].Type)

	require.NoError(t, tb.Sort(players, false))
	assert.Equal(t, []string{"1", "2-4", "10-12"}, column(tb, players))
}
