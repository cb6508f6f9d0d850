package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventProcessDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "warden_event_duration_sec",
	Help: "Total duration of event processing",
})

var eventProcessCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_events_processed",
	Help: "Number of events processed, by verdict action",
}, []string{"action"})

var ruleHitCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_rule_hits",
	Help: "Number of rule matches, by rule category",
}, []string{"category"})

var ruleStoreErrorCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "warden_rule_store_errors",
	Help: "Number of failed rule store reads (evaluated with empty rules)",
})

var actionErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "warden_action_errors",
	Help: "Number of failed verdict side effects, by operation",
}, []string{"op"})
