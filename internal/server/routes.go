package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"mafiaroom/internal/config"
	"mafiaroom/internal/rooms"
	"mafiaroom/internal/transport"
)

// Run wires the registry, the Socket.IO transport and the HTTP surface
// together and blocks until the process is told to stop.
func Run() error {
	cfg := config.Load()

	store := rooms.NewStore()
	ws := transport.New(cfg.AllowedOrigins, store, log.Logger)

	router := mux.NewRouter()
	router.PathPrefix("/socket.io/").Handler(ws.Handler())
	router.HandleFunc("/health", handleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Strs("origins", cfg.AllowedOrigins).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	ws.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
