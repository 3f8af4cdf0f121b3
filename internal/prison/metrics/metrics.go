// Package metrics exposes prison workflow counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InmatesAdmitted counts admissions by sentence kind.
	InmatesAdmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gavel_inmates_admitted_total",
		Help: "Inmates admitted, by sentence kind",
	}, []string{"sentence"})

	// InmatesReleased counts processed releases.
	InmatesReleased = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gavel_inmates_released_total",
		Help: "Inmates released from custody",
	})

	// ReportsFiled counts inmate reports by type.
	ReportsFiled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gavel_inmate_reports_filed_total",
		Help: "Inmate reports filed, by report type",
	}, []string{"type"})

	// VisitsLogged counts visitor log entries by visit type.
	VisitsLogged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gavel_visits_logged_total",
		Help: "Visitor log entries, by visit type",
	}, []string{"type"})

	// ProgramEnrollments counts program enrollments by program type.
	ProgramEnrollments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gavel_program_enrollments_total",
		Help: "Rehabilitation program enrollments, by program type",
	}, []string{"type"})
)
