package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/insightdelivered/cardstatement/internal/models"
)

// Conversion outcomes used as the status label.
const (
	StatusSuccess   = "success"
	StatusStructure = "structure_error"
	StatusParse     = "parse_error"
	StatusFailed    = "failed"
)

// Metrics holds the Prometheus metrics of the converter.
type Metrics struct {
	// Registry owns these metrics and backs the /metrics endpoint.
	Registry *prometheus.Registry

	documents     *prometheus.CounterVec
	records       *prometheus.CounterVec
	parseErrors   *prometheus.CounterVec
	emptySections *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewMetrics registers all metrics in a private registry, so it can be
// called more than once in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		documents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardstatement_documents_total",
				Help: "Statements processed, by outcome.",
			},
			[]string{"status"},
		),
		records: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardstatement_records_total",
				Help: "Transaction records extracted, by section.",
			},
			[]string{"section"},
		),
		parseErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardstatement_parse_errors_total",
				Help: "Transaction lines that fit no layout, by section.",
			},
			[]string{"section"},
		),
		emptySections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardstatement_empty_sections_total",
				Help: "Sections without any transaction line, by section.",
			},
			[]string{"section"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cardstatement_stage_duration_seconds",
				Help:    "Duration of conversion stages.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// IncrDocument counts one processed statement under the given status.
func (m *Metrics) IncrDocument(status string) {
	m.documents.WithLabelValues(status).Inc()
}

// RecordStageDuration observes how long a conversion stage took.
func (m *Metrics) RecordStageDuration(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveStatement records per-section counts of a parsed statement.
func (m *Metrics) ObserveStatement(stmt *models.Statement) {
	for section, n := range stmt.Counts() {
		m.records.WithLabelValues(string(section)).Add(float64(n))
	}
	for _, pe := range stmt.ParseErrors {
		m.parseErrors.WithLabelValues(string(pe.Section)).Inc()
	}
	for _, w := range stmt.Warnings {
		m.emptySections.WithLabelValues(string(w.Section)).Inc()
	}
}
