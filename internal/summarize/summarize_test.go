package summarize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	assert.Equal(t, map[string]any{"a": 1.0}, Decode(` {"a": 1} `))
	assert.Equal(t, []any{"x"}, Decode(`["x"]`))
	assert.Equal(t, "plain words", Decode("  plain words\n"))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		result any
		want   string
	}{
		{
			name:   "average price",
			result: map[string]any{"average_price": 15432.0, "make": "Toyota", "count": 12.0},
			want:   "The average price for Toyota is $15,432 across 12 cars.",
		},
		{
			name:   "average price with cents",
			result: map[string]any{"average_price": 999.5},
			want:   "The average price is $999.50.",
		},
		{
			name:   "bmi and bmr",
			result: map[string]any{"bmi": 25.47, "category": "overweight", "bmr": 1742.6},
			want:   "Your BMI is 25.5 (overweight) and your BMR is 1,743 kcal/day.",
		},
		{
			name:   "bmr only",
			result: map[string]any{"bmr": 1500.0},
			want:   "Your BMR is 1,500 kcal/day.",
		},
		{
			name: "team",
			result: map[string]any{"team": map[string]any{"pokemon": []any{
				map[string]any{"name": "Incineroar"}, map[string]any{"name": "Amoonguss"},
			}}},
			want: "Suggested team of 2: Incineroar, Amoonguss.",
		},
		{
			name: "results list",
			result: map[string]any{"results": []any{
				map[string]any{"Car Make": "Toyota", "Car Model": "Corolla", "Year": 2019.0, "Price": 14500.0},
				map[string]any{"Car Make": "Honda", "Car Model": "Civic", "Year": 2018.0, "Price": 13900.0},
			}},
			want: "Found 2 results. Top pick: Toyota Corolla 2019 at $14,500.",
		},
		{
			name:   "recommendations with single item",
			result: map[string]any{"recommendations": []any{map[string]any{"name": "Plank"}}},
			want:   "Found 1 match: Plank.",
		},
		{
			name:   "empty list",
			result: map[string]any{"exercises": []any{}},
			want:   "No exercises found.",
		},
		{
			name:   "top level list",
			result: []any{"a", "b", "c"},
			want:   "Found 3 results. Top pick: a.",
		},
		{
			name:   "plain string",
			result: "hello cars",
			want:   "hello cars",
		},
		{
			name:   "generic",
			result: map[string]any{"ok": true},
			want:   "Here is the result from the tool.",
		},
		{
			name:   "number",
			result: 5.0,
			want:   "Here is the result from the tool.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.result, ""))
		})
	}
}

func TestPreview_BoundedAndOrdered(t *testing.T) {
	result := map[string]any{"results": []any{
		map[string]any{"Price": 1.0, "Car Make": "A", "zeta": "z", "Year": 2019.0},
		map[string]any{"Price": 2.0, "Car Make": "B", "Year": 2020.0},
		map[string]any{"Price": 3.0, "Car Make": "C", "Year": 2021.0},
		map[string]any{"Price": 4.0, "Car Make": "D", "Year": 2022.0},
	}}
	tbl, ok := Preview(result, "", 0)
	require.True(t, ok)
	assert.Equal(t, []string{"Car Make", "Year", "Price", "zeta"}, tbl.Columns)
	assert.Len(t, tbl.Rows, DefaultRows)
	assert.Equal(t, 4, tbl.Total)
	assert.Equal(t, []string{"A", "2019", "1", "z"}, tbl.Rows[0])
	assert.Equal(t, []string{"B", "2020", "2", ""}, tbl.Rows[1])
}

func TestPreview_MilesColumn(t *testing.T) {
	result := []any{map[string]any{"Car Make": "A", "Mileage": 96560.0, "Price": 9000.0}}

	tbl, ok := Preview(result, "under 60k miles", 3)
	require.True(t, ok)
	assert.Equal(t, []string{"Car Make", "Price", "Mileage", "Mileage (mi)"}, tbl.Columns)
	assert.Equal(t, []string{"A", "9000", "96560", "60000"}, tbl.Rows[0])

	tbl, _ = Preview(result, "under 60000 km", 3)
	assert.NotContains(t, tbl.Columns, "Mileage (mi)")
}

func TestPreview_ScalarsAndTeam(t *testing.T) {
	tbl, ok := Preview([]any{"x", 2.0}, "", 5)
	require.True(t, ok)
	assert.Equal(t, []string{"value"}, tbl.Columns)
	assert.Equal(t, [][]string{{"x"}, {"2"}}, tbl.Rows)

	team := map[string]any{"team": map[string]any{"pokemon": []any{map[string]any{"name": "Gholdengo"}}}}
	tbl, ok = Preview(team, "", 3)
	require.True(t, ok)
	assert.Equal(t, [][]string{{"Gholdengo"}}, tbl.Rows)
}

func TestPreview_MixedListRowsMatchHeader(t *testing.T) {
	tbl, ok := Preview([]any{
		map[string]any{"name": "Corolla", "price": 14500.0},
		"n/a",
	}, "", 5)
	require.True(t, ok)
	assert.Equal(t, []string{"name", "price"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	for _, row := range tbl.Rows {
		assert.Len(t, row, len(tbl.Columns))
	}
	assert.Equal(t, []string{"n/a", ""}, tbl.Rows[1])
}

func TestPreview_NoList(t *testing.T) {
	_, ok := Preview(map[string]any{"bmi": 22.0}, "", 3)
	assert.False(t, ok)
	_, ok = Preview("text", "", 3)
	assert.False(t, ok)
	_, ok = Preview(map[string]any{"results": []any{}}, "", 3)
	assert.False(t, ok)
}

func TestPretty(t *testing.T) {
	assert.Equal(t, "raw", Pretty("raw"))
	assert.Equal(t, "{\n  \"a\": 1\n}", Pretty(map[string]any{"a": 1}))
}
