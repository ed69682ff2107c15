// Package components renders the dashboard building blocks as templ components.
package components

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -path ..

import (
	"fmt"

	"github.com/a-h/templ"

	"coursedash/views/models"
)

func periodValue(v models.MetricsView) string {
	if v.Period == "" {
		return "-"
	}
	return v.Period
}

func periodNote(v models.MetricsView) string {
	if v.MostRecent == "" {
		return "Rango temporal"
	}
	return "Último: " + v.MostRecent
}

// Colors come from the palette, never from user input.
func badgeStyle(c models.CourseView) templ.SafeCSS {
	return templ.SafeCSS(fmt.Sprintf("background-color: %s; color: %s; border-color: %s", c.BadgeBG, c.Color, c.BadgeBorder))
}

func swatchStyle(color string) templ.SafeCSS {
	return templ.SafeCSS("background-color: " + color)
}
