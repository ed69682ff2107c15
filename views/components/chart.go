package components

import (
	"fmt"
	"math"

	"coursedash/views/models"
)

const (
	barWidth      = 600.0
	barHeight     = 340.0
	barMarginL    = 40.0
	barMarginR    = 10.0
	barMarginT    = 10.0
	barMarginB    = 70.0
	barFill       = 0.7
	maxTicks      = 5
	pieSize       = 260.0
	pieRadius     = 120.0
	fullCircleEps = 1e-9
)

type barGeom struct {
	Label  string
	Count  int
	X, Y   float64
	W, H   float64
	LabelX float64
	LabelY float64
}

type tickGeom struct {
	Value int
	Y     float64
}

type barChart struct {
	models.DateChartView
	Width, Height float64
	Left, Right   float64
	Top, Bottom   float64
	Bars          []barGeom
	Ticks         []tickGeom
	Empty         bool
}

func f1(v float64) string { return fmt.Sprintf("%.1f", v) }
func f2(v float64) string { return fmt.Sprintf("%.2f", v) }

func viewBox(w, h float64) string { return "0 0 " + f1(w) + " " + f1(h) }

func rotate(deg, x, y float64) string {
	return fmt.Sprintf("rotate(%g %.2f %.2f)", deg, x, y)
}

// tickStep picks an integer step giving at most maxTicks intervals up to peak.
func tickStep(peak int) int {
	if peak <= maxTicks {
		return 1
	}
	return int(math.Ceil(float64(peak) / maxTicks))
}

func layoutBars(v models.DateChartView) barChart {
	c := barChart{
		DateChartView: v,
		Width:         barWidth,
		Height:        barHeight,
		Left:          barMarginL,
		Right:         barWidth - barMarginR,
		Top:           barMarginT,
		Bottom:        barHeight - barMarginB,
		Empty:         len(v.Buckets) == 0,
	}
	if c.Empty {
		return c
	}

	peak := 0
	for _, b := range v.Buckets {
		peak = max(peak, b.Count)
	}
	step := tickStep(peak)
	yMax := ((peak + step - 1) / step) * step
	plotH := c.Bottom - c.Top
	for t := 0; t <= yMax; t += step {
		c.Ticks = append(c.Ticks, tickGeom{Value: t, Y: c.Bottom - float64(t)/float64(yMax)*plotH})
	}

	band := (c.Right - c.Left) / float64(len(v.Buckets))
	w := band * barFill
	for i, b := range v.Buckets {
		h := float64(b.Count) / float64(yMax) * plotH
		x := c.Left + float64(i)*band + (band-w)/2
		c.Bars = append(c.Bars, barGeom{
			Label:  b.Label,
			Count:  b.Count,
			X:      x,
			Y:      c.Bottom - h,
			W:      w,
			H:      h,
			LabelX: x + w/2,
			LabelY: c.Bottom + 14,
		})
	}
	return c
}

type sliceGeom struct {
	models.CategoryView
	Path  string
	Full  bool
	Title string
}

type pieChart struct {
	Size   float64
	CX, CY float64
	R      float64
	Total  int
	Slices []sliceGeom
	Legend []models.CategoryView
	Empty  bool
}

func layoutPie(v models.CategoryChartView) pieChart {
	c := pieChart{
		Size:   pieSize,
		CX:     pieSize / 2,
		CY:     pieSize / 2,
		R:      pieRadius,
		Total:  v.Total,
		Legend: v.Categories,
		Empty:  v.Total == 0 || len(v.Categories) == 0,
	}
	if c.Empty {
		return c
	}

	angle := -math.Pi / 2
	for _, cat := range v.Categories {
		frac := float64(cat.Count) / float64(v.Total)
		s := sliceGeom{
			CategoryView: cat,
			Title:        fmt.Sprintf("%s: %d cursos (%.1f%%)", cat.Name, cat.Count, cat.Percent),
		}
		if frac >= 1-fullCircleEps {
			s.Full = true
			c.Slices = append(c.Slices, s)
			break
		}

		end := angle + frac*2*math.Pi
		large := 0
		if frac > 0.5 {
			large = 1
		}
		x1, y1 := c.CX+c.R*math.Cos(angle), c.CY+c.R*math.Sin(angle)
		x2, y2 := c.CX+c.R*math.Cos(end), c.CY+c.R*math.Sin(end)
		s.Path = fmt.Sprintf("M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z",
			c.CX, c.CY, x1, y1, c.R, c.R, large, x2, y2)
		c.Slices = append(c.Slices, s)
		angle = end
	}
	return c
}
