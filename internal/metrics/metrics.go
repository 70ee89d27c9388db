// Package metrics exposes the process-wide Prometheus collectors. Everything
// registers on the default registry; the server mounts promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mafiaroom_rooms_created_total",
		Help: "Rooms created since process start.",
	})
	RoomsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mafiaroom_rooms_closed_total",
		Help: "Rooms closed by a host disconnect.",
	})
	PlayersJoined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mafiaroom_players_joined_total",
		Help: "Successful room joins.",
	})
	RolesDealt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mafiaroom_distributions_total",
		Help: "Successful role distributions.",
	})
	RoomsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mafiaroom_rooms_open",
		Help: "Rooms currently held in the registry.",
	})
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mafiaroom_connected_clients",
		Help: "Currently connected Socket.IO clients.",
	})
)
