// Package observability registers the service's Prometheus metrics.
// Counters are package-level so any layer can record an event without
// threading a registry through constructors.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	stampsCollected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heritage_quest",
		Subsystem: "checkin",
		Name:      "stamps_collected_total",
		Help:      "Passport stamps collected, labelled by site category.",
	}, []string{"category"})

	achievementsAwarded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heritage_quest",
		Subsystem: "achievements",
		Name:      "awarded_total",
		Help:      "Achievements awarded, labelled by rarity.",
	}, []string{"rarity"})

	guideRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heritage_quest",
		Subsystem: "guide",
		Name:      "requests_total",
		Help:      "Guide chat requests, labelled by outcome (ok, rate_limited, error).",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(stampsCollected, achievementsAwarded, guideRequests)
}

// RecordStampCollected increments the stamp counter for a site category.
func RecordStampCollected(category string) {
	stampsCollected.WithLabelValues(category).Inc()
}

// RecordAchievementAwarded increments the award counter for a rarity.
func RecordAchievementAwarded(rarity string) {
	achievementsAwarded.WithLabelValues(rarity).Inc()
}

// RecordGuideRequest increments the guide counter for an outcome.
func RecordGuideRequest(outcome string) {
	guideRequests.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler serving the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
