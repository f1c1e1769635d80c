// Package metrics holds Prometheus instruments shared by the board, the card
// form, and the HTTP binding.  All collectors are registered with the
// global registry, so mounting promhttp.Handler() in main.go is enough to
// expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome and reason label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	ReasonValid        = "valid"
	ReasonEmpty        = "empty_name"
	ReasonInvalidChars = "invalid_characters"
)

var (
	LiveForms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "card_form_live",
			Help: "Number of card form instances currently held in memory.",
		})

	ValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_form_validations_total",
			Help: "Card name validations by result.",
		}, []string{"reason"})

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "card_form_submissions_total",
			Help: "Card form submissions by confirmed outcome.",
		}, []string{"outcome"})

	SubmitsBlockedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "card_form_submits_blocked_total",
			Help: "Submits refused before dispatch (closed gate or already submitting).",
		})

	CardsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "board_cards_created_total",
			Help: "Cumulative number of createCard intents applied by the board.",
		})
)

func init() {
	prometheus.MustRegister(
		LiveForms,
		ValidationsTotal,
		SubmissionsTotal,
		SubmitsBlockedTotal,
		CardsCreatedTotal,
	)
}
