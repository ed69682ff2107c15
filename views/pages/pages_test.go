package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"coursedash/views/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardPage(t *testing.T) {
	var buf bytes.Buffer
	err := DashboardPage(models.DashboardView{
		Header:   models.HeaderView{Title: "Mis Cursos"},
		TableURL: "/fragments/table",
		CardsURL: "/fragments/cards",
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `<html lang="es">`)
	assert.Contains(t, out, "<title>Mis Cursos</title>")
	assert.Contains(t, out, `href="/static/dashboard.css"`)
	assert.Contains(t, out, "htmx.org")
	assert.Contains(t, out, `<h1>Mis Cursos</h1>`)
	assert.Contains(t, out, `id="course-table"`)
	assert.NotContains(t, out, "http-equiv")

	// components render inside <main> in page order
	main := out[strings.Index(out, `<main class="container">`):strings.Index(out, "</main>")]
	assert.Less(t, strings.Index(main, "dash-header"), strings.Index(main, `class="metrics"`))
	assert.Less(t, strings.Index(main, `class="charts"`), strings.Index(main, `class="lists"`))
}

func TestStatusPages(t *testing.T) {
	v := models.StatusView{Title: "Cargando…", State: "pending", Message: "espera"}

	var buf bytes.Buffer
	require.NoError(t, LoadingPage(v).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `<meta http-equiv="refresh" content="2">`)
	assert.Contains(t, buf.String(), "status-pending")

	buf.Reset()
	v.State = "failed"
	require.NoError(t, FailedPage(v).Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "http-equiv")
	assert.Contains(t, buf.String(), `<section class="card status status-failed">`)
	assert.Contains(t, buf.String(), "<p>espera</p>")
}
