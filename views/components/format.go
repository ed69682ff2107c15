package components

import (
	"fmt"
	"time"
)

var monthsLong = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var monthsShort = [...]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sept", "oct", "nov", "dic",
}

// InvalidDate is shown for dates that did not parse.
const InvalidDate = "Fecha inválida"

// DateLong formats t as "15 de enero de 2020".
func DateLong(t time.Time, ok bool) string {
	if !ok {
		return InvalidDate
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthsLong[t.Month()-1], t.Year())
}

// DateShort formats t as "15 ene 2020".
func DateShort(t time.Time, ok bool) string {
	if !ok {
		return InvalidDate
	}
	return fmt.Sprintf("%d %s %d", t.Day(), monthsShort[t.Month()-1], t.Year())
}
