// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "prediction_tracker"

var (
	// OutcomesRecorded counts outcome writes by action (created, updated, deleted)
	OutcomesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outcomes_recorded_total",
		Help:      "Outcome judgments written, by action.",
	}, []string{"action"})

	// Conversions counts booking-code conversions by path (rule, fallback)
	Conversions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conversions_total",
		Help:      "Booking-code conversions, by resolution path.",
	}, []string{"path"})

	// AccessDenied counts VIP gate refusals by feature
	AccessDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Requests refused by the VIP gate, by feature.",
	}, []string{"feature"})

	// PaymentsApplied counts subscription extensions by plan (yearly, monthly)
	PaymentsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_applied_total",
		Help:      "Payment confirmations applied to subscriptions, by plan.",
	}, []string{"plan"})

	// Classifications counts outcome queries by viewer tier (vip, regular)
	Classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classifications_total",
		Help:      "Outcome classification queries, by viewer tier.",
	}, []string{"viewer"})
)

// Label values
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"

	PathRule     = "rule"
	PathFallback = "fallback"

	FeatureConverter  = "converter"
	FeatureBookmakers = "bookmakers"
	FeatureVIPMatch   = "vip_match"

	PlanYearly  = "yearly"
	PlanMonthly = "monthly"

	ViewerVIP     = "vip"
	ViewerRegular = "regular"
)
