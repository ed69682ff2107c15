package courses

import (
	"fmt"
	"hash/fnv"
)

// FallbackColor is used for categories the palette has never seen.
const FallbackColor = "#3b82f6"

// BrandColors are the preferred colors of the known categories.
var BrandColors = map[string]string{
	"Python/Data Science":      "#3b82f6",
	"Desarrollo Web":           "#10b981",
	"Sistemas/DevOps":          "#f59e0b",
	"Programación General":     "#ef4444",
	"Criptomonedas/Blockchain": "#8b5cf6",
	"Marketing/Negocios":       "#ec4899",
	"Hardware/IoT":             "#14b8a6",
	"Matemáticas":              "#f97316",
	"Bases de Datos":           "#6366f1",
	"Machine Learning":         "#84cc16",
	"Finanzas":                 "#06b6d4",
	"Cloud Computing":          "#a855f7",
}

// spareColors are handed out to categories without a brand color.
var spareColors = []string{
	"#0ea5e9", "#22c55e", "#eab308", "#f43f5e", "#d946ef",
	"#64748b", "#78716c", "#059669", "#dc2626", "#7c3aed",
}

// Palette maps every category present in a dataset to a color.
type Palette struct {
	colors map[string]string
}

// NewPalette assigns colors in first-seen order: brand colors where defined,
// then unused spare colors, then generated ones.
func NewPalette(cs []Course) *Palette {
	p := &Palette{colors: make(map[string]string)}
	used := make(map[string]bool)

	var unbranded []string
	for _, c := range cs {
		if _, ok := p.colors[c.Category]; ok {
			continue
		}
		if color, ok := BrandColors[c.Category]; ok {
			p.colors[c.Category] = color
			used[color] = true
			continue
		}
		p.colors[c.Category] = ""
		unbranded = append(unbranded, c.Category)
	}

	spare := 0
	for _, name := range unbranded {
		for spare < len(spareColors) && used[spareColors[spare]] {
			spare++
		}
		if spare < len(spareColors) {
			p.colors[name] = spareColors[spare]
			used[spareColors[spare]] = true
			spare++
			continue
		}
		p.colors[name] = generatedColor(name)
	}
	return p
}

// Color returns the color of category, or FallbackColor if it was not in the dataset.
func (p *Palette) Color(category string) string {
	if p == nil {
		return FallbackColor
	}
	if c, ok := p.colors[category]; ok {
		return c
	}
	return FallbackColor
}

// generatedColor derives a stable hex color from the category name.
func generatedColor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	r, g, b := hslToRGB(float64(h.Sum32()%360), 0.55, 0.5)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// hslToRGB converts h in [0,360), s and l in [0,1] to 8-bit RGB.
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	h /= 360.0

	var r1, g1, b1 float64
	if s == 0 {
		r1, g1, b1 = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		r1 = hueToRGB(p, q, h+1.0/3.0)
		g1 = hueToRGB(p, q, h)
		b1 = hueToRGB(p, q, h-1.0/3.0)
	}
	return uint8(r1 * 255), uint8(g1 * 255), uint8(b1 * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
