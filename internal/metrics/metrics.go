package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// Metrics хранит счётчики платформы
type Metrics struct {
	UsersRegistered   prometheus.Counter
	SwapRequests      prometheus.Counter
	SwapTransitions   *prometheus.CounterVec
	FeedbackSubmitted prometheus.Counter
	FeedbackRatings   prometheus.Histogram
	UserBans          prometheus.Counter
	UserUnbans        prometheus.Counter
	AdminMessages     prometheus.Counter
	LoginAttempts     *prometheus.CounterVec
	ReportDownloads   *prometheus.CounterVec
	WebsocketClients  prometheus.Gauge
}

// New регистрирует метрики в reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UsersRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "skillswap_users_registered_total",
			Help: "Total number of registered users.",
		}),
		SwapRequests: f.NewCounter(prometheus.CounterOpts{
			Name: "skillswap_swap_requests_created_total",
			Help: "Total number of created swap requests.",
		}),
		SwapTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_swap_status_changes_total",
			Help: "Swap request status changes by target status.",
		}, []string{"status"}),
		FeedbackSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "skillswap_feedback_submitted_total",
			Help: "Total number of submitted feedback entries.",
		}),
		FeedbackRatings: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillswap_feedback_rating",
			Help:    "Distribution of submitted ratings.",
			Buckets: prometheus.LinearBuckets(models.MinRating, 1, models.MaxRating-models.MinRating+1),
		}),
		UserBans: f.NewCounter(prometheus.CounterOpts{
			Name: "skillswap_user_bans_total",
			Help: "Total number of successful user bans.",
		}),
		UserUnbans: f.NewCounter(prometheus.CounterOpts{
			Name: "skillswap_user_unbans_total",
			Help: "Total number of successful user unbans.",
		}),
		AdminMessages: f.NewCounter(prometheus.CounterOpts{
			Name: "skillswap_admin_messages_total",
			Help: "Total number of broadcast admin messages.",
		}),
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_login_attempts_total",
			Help: "Login attempts by method and result.",
		}, []string{"method", "result"}),
		ReportDownloads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "skillswap_report_downloads_total",
			Help: "Report downloads by collection.",
		}, []string{"collection"}),
		WebsocketClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "skillswap_websocket_clients",
			Help: "Number of connected websocket clients.",
		}),
	}
}

// Observe обновляет счётчики по событию каталога; подписывается через ledger.Subscribe
func (m *Metrics) Observe(e ledger.Event) {
	switch e.Type {
	case ledger.EventUserRegistered:
		m.UsersRegistered.Inc()
	case ledger.EventSwapCreated:
		m.SwapRequests.Inc()
	case ledger.EventSwapStatusChanged:
		if r, ok := e.Payload.(models.SwapRequest); ok {
			m.SwapTransitions.WithLabelValues(string(r.Status)).Inc()
		}
	case ledger.EventFeedbackSubmitted:
		m.FeedbackSubmitted.Inc()
		if p, ok := e.Payload.(ledger.FeedbackSubmitted); ok {
			m.FeedbackRatings.Observe(float64(p.Feedback.Rating))
		}
	case ledger.EventUserBanned:
		m.UserBans.Inc()
	case ledger.EventUserUnbanned:
		m.UserUnbans.Inc()
	case ledger.EventAdminMessage:
		m.AdminMessages.Inc()
	}
}
