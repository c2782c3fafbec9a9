package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for chat turns and backend calls.
type ChatMetrics struct {
	turnsTotal        *prometheus.CounterVec
	completionLatency *prometheus.HistogramVec
	tokensTotal       *prometheus.CounterVec
	summariesTotal    *prometheus.CounterVec
}

// Call purposes distinguish the user's turn from internal summarization calls.
const (
	PurposeTurn      = "turn"
	PurposeSummarize = "summarize"
)

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatprompt",
			Subsystem: "session",
			Name:      "turns_total",
			Help:      "Total chat turns by outcome",
		}, []string{"status"}),
		completionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chatprompt",
			Subsystem: "session",
			Name:      "completion_latency_seconds",
			Help:      "Latency of completion backend calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 4, 5, 6, 8, 10, 15, 20, 30, 60},
		}, []string{"model", "purpose", "status"}),
		tokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatprompt",
			Subsystem: "session",
			Name:      "tokens_total",
			Help:      "Tokens reported by the completion backend",
		}, []string{"model", "type"}), // type: input, output, total
		summariesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatprompt",
			Subsystem: "session",
			Name:      "summaries_total",
			Help:      "History entries passed through the summarizer by outcome",
		}, []string{"outcome"}), // outcome: kept, summarized, error
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.completionLatency, m.tokensTotal, m.summariesTotal)
	return m
}

func (m *ChatMetrics) ObserveTurn(status string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(status).Inc()
}

func (m *ChatMetrics) ObserveCompletion(model, purpose, status string, seconds float64) {
	if m == nil {
		return
	}
	m.completionLatency.WithLabelValues(model, purpose, status).Observe(seconds)
}

func (m *ChatMetrics) ObserveTokens(model string, input, output, total int) {
	if m == nil {
		return
	}
	if input > 0 {
		m.tokensTotal.WithLabelValues(model, "input").Add(float64(input))
	}
	if output > 0 {
		m.tokensTotal.WithLabelValues(model, "output").Add(float64(output))
	}
	if total > 0 {
		m.tokensTotal.WithLabelValues(model, "total").Add(float64(total))
	}
}

func (m *ChatMetrics) ObserveSummary(outcome string) {
	if m == nil {
		return
	}
	m.summariesTotal.WithLabelValues(outcome).Inc()
}
