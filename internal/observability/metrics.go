package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_active_connections",
			Help: "Number of active websocket connections held by the relay.",
		},
	)
	wsActiveRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_active_rooms",
			Help: "Number of rooms with at least one member.",
		},
	)
	roomJoinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_room_joins_total",
			Help: "Total number of room join attempts, by outcome.",
		},
		[]string{"result"},
	)
	eventsBroadcastTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_broadcast_total",
			Help: "Total number of events fanned out to rooms, by event name.",
		},
		[]string{"event"},
	)
	eventsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_events_dropped_total",
			Help: "Total number of events dropped because a client's send buffer was full.",
		},
	)
	emitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_emit_requests_total",
			Help: "Total number of requests to the internal emit endpoint, by status.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		wsActiveConnections,
		wsActiveRooms,
		roomJoinsTotal,
		eventsBroadcastTotal,
		eventsDroppedTotal,
		emitRequestsTotal,
	)
}

// ConnectionOpened records a new relay connection.
func ConnectionOpened() {
	wsActiveConnections.Inc()
}

// ConnectionClosed records a relay connection ending.
func ConnectionClosed() {
	wsActiveConnections.Dec()
}

// SetActiveRooms records the current number of live rooms.
func SetActiveRooms(n int) {
	wsActiveRooms.Set(float64(n))
}

// RoomJoin records a join attempt outcome: "joined", "denied" or "not_found".
func RoomJoin(result string) {
	roomJoinsTotal.WithLabelValues(result).Inc()
}

// EventBroadcast records one fan-out of the named event.
func EventBroadcast(event string) {
	eventsBroadcastTotal.WithLabelValues(event).Inc()
}

// EventDropped records an event lost to a full client buffer.
func EventDropped() {
	eventsDroppedTotal.Inc()
}

// EmitRequest records an intake request outcome: "ok", "unauthorized" or
// "bad_request".
func EmitRequest(status string) {
	emitRequestsTotal.WithLabelValues(status).Inc()
}
