package components

import (
	"strings"
	"testing"

	"coursedash/views/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickStep(t *testing.T) {
	assert.Equal(t, 1, tickStep(0))
	assert.Equal(t, 1, tickStep(5))
	assert.Equal(t, 2, tickStep(6))
	assert.Equal(t, 2, tickStep(10))
	assert.Equal(t, 7, tickStep(31))
}

func TestLayoutBars(t *testing.T) {
	c := layoutBars(models.DateChartView{Buckets: []models.BucketView{
		{Label: "2020", Count: 2},
		{Label: "2021", Count: 1},
	}})
	require.False(t, c.Empty)
	require.Len(t, c.Bars, 2)

	plotH := c.Bottom - c.Top
	assert.InDelta(t, plotH, c.Bars[0].H, 1e-9, "tallest bar fills the plot")
	assert.InDelta(t, plotH/2, c.Bars[1].H, 1e-9)
	assert.InDelta(t, c.Bottom, c.Bars[1].Y+c.Bars[1].H, 1e-9, "bars stand on the baseline")
	assert.Less(t, c.Bars[0].X+c.Bars[0].W, c.Bars[1].X)
	assert.GreaterOrEqual(t, c.Bars[0].X, c.Left)
	assert.LessOrEqual(t, c.Bars[1].X+c.Bars[1].W, c.Right)

	values := make([]int, len(c.Ticks))
	for i, tk := range c.Ticks {
		values[i] = tk.Value
	}
	assert.Equal(t, []int{0, 1, 2}, values)
	assert.InDelta(t, c.Top, c.Ticks[2].Y, 1e-9)
}

func TestLayoutBarsEmpty(t *testing.T) {
	c := layoutBars(models.DateChartView{})
	assert.True(t, c.Empty)
	assert.Empty(t, c.Bars)
}

func TestLayoutPie(t *testing.T) {
	c := layoutPie(models.CategoryChartView{Total: 3, Categories: []models.CategoryView{
		{Name: "X", Count: 2, Color: "#111111", Percent: 66.67},
		{Name: "Y", Count: 1, Color: "#222222", Percent: 33.33},
	}})
	require.Len(t, c.Slices, 2)
	assert.False(t, c.Slices[0].Full)
	assert.True(t, strings.HasPrefix(c.Slices[0].Path, "M 130.00 130.00 L 130.00 10.00 A 120.00 120.00 0 1 1"), c.Slices[0].Path)
	assert.Contains(t, c.Slices[1].Path, " 0 0 1 ", "minor slice uses the small arc")
	assert.Equal(t, "X: 2 cursos (66.7%)", c.Slices[0].Title)
	assert.Len(t, c.Legend, 2)
}

func TestLayoutPieSingleCategoryIsFullCircle(t *testing.T) {
	c := layoutPie(models.CategoryChartView{Total: 4, Categories: []models.CategoryView{
		{Name: "X", Count: 4, Color: "#111111", Percent: 100},
	}})
	require.Len(t, c.Slices, 1)
	assert.True(t, c.Slices[0].Full)
	assert.Empty(t, c.Slices[0].Path)
}

func TestLayoutPieEmpty(t *testing.T) {
	assert.True(t, layoutPie(models.CategoryChartView{}).Empty)
}
