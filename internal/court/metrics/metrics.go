// Package metrics exposes court workflow counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CasesCreated counts filed cases by type.
	CasesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gavel_cases_created_total",
		Help: "Cases filed, by case type",
	}, []string{"type"})

	// CasesAssigned counts judge assignments.
	CasesAssigned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gavel_cases_assigned_total",
		Help: "Cases assigned to a judge",
	})

	// SentencesPassed counts decisions by sentence type.
	SentencesPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gavel_sentences_passed_total",
		Help: "Sentences passed, by sentence type",
	}, []string{"type"})

	// HearingsScheduled counts scheduled hearings by hearing type.
	HearingsScheduled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gavel_hearings_scheduled_total",
		Help: "Hearings scheduled, by hearing type",
	}, []string{"type"})
)
