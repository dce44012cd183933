package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"p12expiry/pkg/models"
)

const namespace = "p12expiry"

// Recorder holds the gauges describing one check result.
type Recorder struct {
	registry      *prometheus.Registry
	notAfter      *prometheus.GaugeVec
	secondsLeft   *prometheus.GaugeVec
	daysRemaining *prometheus.GaugeVec
	state         *prometheus.GaugeVec
}

// NewRecorder registers the check gauges on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		notAfter: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "not_after_timestamp_seconds",
			Help:      "Certificate expiration as a Unix timestamp",
		}, []string{"archive"}),
		secondsLeft: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seconds_to_expiration",
			Help:      "Seconds until the certificate expires, negative once expired",
		}, []string{"archive"}),
		daysRemaining: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "days_remaining",
			Help:      "Calendar days until the certificate expires",
		}, []string{"archive"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      fmt.Sprintf("Urgency state of the certificate, 1 for the current one of %v", models.AllStates()),
		}, []string{"archive", "state"}),
	}

	r.registry.MustRegister(r.notAfter, r.secondsLeft, r.daysRemaining, r.state)
	return r
}

// Observe sets every gauge from report. All states are exported so that
// alerts can match on state="healthy" == 0.
func (r *Recorder) Observe(report *models.Report) {
	r.notAfter.WithLabelValues(report.Archive).Set(float64(report.ExpiresAt.Unix()))
	r.secondsLeft.WithLabelValues(report.Archive).Set(float64(report.SecondsToExpiration))
	r.daysRemaining.WithLabelValues(report.Archive).Set(float64(report.DaysRemaining))

	for _, s := range models.AllStates() {
		v := 0.0
		if s == report.State {
			v = 1
		}
		r.state.WithLabelValues(report.Archive, s.String()).Set(v)
	}
}

// WriteTextfile writes the registry in the node_exporter textfile format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
