package repository

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts write-path outcomes. A nil *Metrics records nothing.
type Metrics struct {
	PostsClassified      *prometheus.CounterVec
	MembershipWrites     *prometheus.CounterVec
	SearchHistoryTrimmed prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		PostsClassified: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "socialnet_posts_classified_total",
				Help: "Posts classified at creation time",
			},
			[]string{"viral"},
		),
		MembershipWrites: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "socialnet_membership_writes_total",
				Help: "Membership add/remove outcomes per list",
			},
			[]string{"list", "op", "outcome"}, // op: add/remove, outcome: ok/exists/missing/error
		),
		SearchHistoryTrimmed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "socialnet_search_history_trimmed_total",
				Help: "Search history entries deleted by the recency cap",
			},
		),
	}
}

func (m *Metrics) classified(viral bool) {
	if m == nil {
		return
	}
	m.PostsClassified.WithLabelValues(strconv.FormatBool(viral)).Inc()
}

func (m *Metrics) membership(list, op, outcome string) {
	if m == nil {
		return
	}
	m.MembershipWrites.WithLabelValues(list, op, outcome).Inc()
}

func (m *Metrics) trimmed(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.SearchHistoryTrimmed.Add(float64(n))
}
