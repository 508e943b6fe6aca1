// internal/pkg/metrics/metrics.go
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ListingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alphase_listings_created_total",
		Help: "Listings submitted for moderation.",
	})
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alphase_moderation_actions_total",
		Help: "Admin moderation actions by target and action.",
	}, []string{"target", "action"})
	ConversationsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alphase_conversations_started_total",
		Help: "New buyer-seller conversations.",
	})
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alphase_messages_sent_total",
		Help: "Chat messages persisted.",
	})
	CommissionsAccrued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alphase_commissions_accrued_total",
		Help: "Referral commissions credited to partners.",
	})
	VisitorsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alphase_visitors_expired_total",
		Help: "Visitor accounts whose paid access ran out.",
	})
	ListingsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alphase_listings_expired_total",
		Help: "Listings moved to expired by the sweeper.",
	})
	EmailsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alphase_emails_delivered_total",
		Help: "E-mail jobs handled by the notification service, by outcome.",
	}, []string{"outcome"})
	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alphase_push_deliveries_total",
		Help: "Chat events handled by the push gateway, by outcome.",
	}, []string{"outcome"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alphase_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets WebSocket upgrades pass through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Middleware observes request latency keyed by the matched ServeMux pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Observe(time.Since(start).Seconds())
	})
}
