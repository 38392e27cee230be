package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/status-im/asset-loader/events"
	"github.com/status-im/asset-loader/loader"
)

type Server struct {
	port   string
	loader *loader.Loader
	bus    events.IBus
	server *http.Server
}

func New(port string, assetLoader *loader.Loader, bus events.IBus) *Server {
	return &Server{
		port:   port,
		loader: assetLoader,
		bus:    bus,
	}
}

func (s *Server) Start(ctx context.Context) error {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/status", s.handleStatus).Methods("GET")
	router.HandleFunc("/api/v1/assets/{group}/{key:.*}", s.handleAssetLookup).Methods("GET")
	router.HandleFunc("/api/v1/interaction", s.handleInteraction).Methods("POST")
	router.HandleFunc("/api/v1/events", s.handleEvents)

	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    ":" + s.port,
		Handler: router,
	}

	log.Printf("Server starting at http://localhost:%s", s.port)
	log.Println("Prometheus metrics available at /metrics endpoint")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return nil
}

func (s *Server) Stop() {
	if s.server != nil {
		if err := s.server.Shutdown(context.Background()); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		log.Printf("Error encoding health response: %v", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.loader.Status()); err != nil {
		log.Printf("Error encoding status response: %v", err)
	}
}

func (s *Server) handleAssetLookup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	group, key := vars["group"], vars["key"]

	item, found := s.loader.Lookup(group, key)
	if !found {
		http.Error(w, "asset not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(item.Describe()); err != nil {
		log.Printf("Error encoding asset response: %v", err)
	}
}

// handleInteraction fires the user-interaction signal. Sound items
// whose playback was gated on a gesture retry their activation.
func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	s.loader.SignalInteraction()
	w.WriteHeader(http.StatusNoContent)
}
