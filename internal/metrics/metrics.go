// Package metrics exposes the server's Prometheus collectors on a private
// registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cinequiz"

// Metrics implements rooms.Observer.
type Metrics struct {
	registry *prometheus.Registry

	activeRooms   prometheus.Gauge
	gamesStarted  prometheus.Counter
	gamesFinished prometheus.Counter
	answers       *prometheus.CounterVec
	droppedEvents *prometheus.CounterVec
	droppedGames  prometheus.Counter
}

// New registers the collectors. connections reports the number of open
// websocket connections when scraped; it may be nil.
func New(connections func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		activeRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms_active",
			Help:      "Rooms currently open.",
		}),
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Quizzes started.",
		}),
		gamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Quizzes played to the last question.",
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answers recorded, by correctness.",
		}, []string{"result"}),
		droppedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_events_total",
			Help:      "Outbound events skipped because a connection queue was full.",
		}, []string{"event"}),
		droppedGames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_game_records_total",
			Help:      "Finished games not persisted because the history buffer was full.",
		}),
	}

	m.registry.MustRegister(
		m.activeRooms,
		m.gamesStarted,
		m.gamesFinished,
		m.answers,
		m.droppedEvents,
		m.droppedGames,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if connections != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Open websocket connections.",
		}, func() float64 { return float64(connections()) }))
	}
	return m
}

func (m *Metrics) RoomOpened()   { m.activeRooms.Inc() }
func (m *Metrics) RoomClosed()   { m.activeRooms.Dec() }
func (m *Metrics) GameStarted()  { m.gamesStarted.Inc() }
func (m *Metrics) GameFinished() { m.gamesFinished.Inc() }

func (m *Metrics) AnswerRecorded(correct bool) {
	if correct {
		m.answers.WithLabelValues("correct").Inc()
	} else {
		m.answers.WithLabelValues("wrong").Inc()
	}
}

func (m *Metrics) EventDropped(event string) {
	m.droppedEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) GameRecordDropped() {
	m.droppedGames.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
