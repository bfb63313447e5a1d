package dashboard

import (
	"fmt"
	"time"

	"agenda/internal/notify"
	"agenda/internal/timefmt"
)

type messages struct {
	availabilityTitle string
	availabilityDesc  string // month name
	appointmentsTitle string
	appointmentsDesc  string // day label
}

var catalog = map[timefmt.Locale]messages{
	timefmt.LocalePtBR: {
		availabilityTitle: "Erro ao carregar disponibilidade do mês",
		availabilityDesc:  "Não foi possível carregar a disponibilidade do mês de %s. Tente novamente!",
		appointmentsTitle: "Erro ao carregar agendamentos",
		appointmentsDesc:  "Não foi possível carregar os agendamentos (%s). Tente novamente!",
	},
	timefmt.LocaleEnUS: {
		availabilityTitle: "Could not load month availability",
		availabilityDesc:  "Availability for %s could not be loaded. Please try again!",
		appointmentsTitle: "Could not load appointments",
		appointmentsDesc:  "Appointments for %s could not be loaded. Please try again!",
	},
}

func messagesFor(locale timefmt.Locale) messages {
	if m, ok := catalog[locale]; ok {
		return m
	}
	return catalog[timefmt.DefaultLocale]
}

func availabilityFailedToast(locale timefmt.Locale, month time.Time) notify.Toast {
	m := messagesFor(locale)
	return notify.Toast{
		Type:        notify.TypeError,
		Title:       m.availabilityTitle,
		Description: fmt.Sprintf(m.availabilityDesc, timefmt.MonthName(month, locale)),
	}
}

func appointmentsFailedToast(locale timefmt.Locale, day time.Time) notify.Toast {
	m := messagesFor(locale)
	return notify.Toast{
		Type:        notify.TypeError,
		Title:       m.appointmentsTitle,
		Description: fmt.Sprintf(m.appointmentsDesc, timefmt.LongDateLabel(day, locale)),
	}
}
