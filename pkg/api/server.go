package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/predictia/predictia-go/pkg/mlmodel"
	"github.com/predictia/predictia-go/pkg/models"
)

const apiVersion = "1.0.0"

// Server provides HTTP API endpoints over the model lifecycle service
type Server struct {
	service *mlmodel.Service
	mux     *http.ServeMux
	http    *http.Server
}

// NewServer creates a new API server
func NewServer(service *mlmodel.Service, port string) *Server {
	s := &Server{
		service: service,
		mux:     http.NewServeMux(),
	}

	s.registerRoutes()
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: s.Handler(),
	}
	return s
}

// registerRoutes sets up the HTTP routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/models", s.handleModels)
	s.mux.HandleFunc("/models/", s.handleModelByID)
	s.mux.HandleFunc("/training", s.handleTraining)
	s.mux.HandleFunc("/predictions/", s.handlePrediction)
}

// Handler returns the server's HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.mux)
}

// Start starts the HTTP server. It blocks until the listener fails or
// Shutdown is called, in which case it returns http.ErrServerClosed.
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown stops the listener so no new requests are accepted and
// waits for in-flight handlers to finish, bounded by the context.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// corsMiddleware allows cross-origin requests from frontends and
// partner services
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   apiVersion,
	})
}

// handleModels handles model listing requests
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	records, err := s.service.ListModels()
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	statuses := make([]ModelStatusResponse, 0, len(records))
	for _, record := range records {
		statuses = append(statuses, newModelStatusResponse(record))
	}

	writeJSON(w, http.StatusOK, ModelListResponse{Models: statuses, Count: len(statuses)})
}

// handleModelByID handles status checks and deletion for a single model
func (s *Server) handleModelByID(w http.ResponseWriter, r *http.Request) {
	id, action := splitModelPath(r.URL.Path)
	if id == "" {
		writeError(w, http.StatusNotFound, "not_found", "Model identifier missing")
		return
	}

	switch {
	case r.Method == http.MethodGet && action == "":
		s.handleModelStatus(w, id)
	case r.Method == http.MethodDelete && action == "delete":
		s.handleModelDelete(w, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	}
}

// handleModelStatus handles model status requests
func (s *Server) handleModelStatus(w http.ResponseWriter, id string) {
	record, err := s.service.GetStatus(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newModelStatusResponse(record))
}

// handleModelDelete handles model deletion requests
func (s *Server) handleModelDelete(w http.ResponseWriter, id string) {
	if err := s.service.Delete(id); err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{
		ID:      id,
		Status:  "deleted",
		Message: "Model successfully deleted",
	})
}

// handleTraining handles training submission requests. Returns 202
// Accepted immediately; clients poll GET /models/{id} for progress.
func (s *Server) handleTraining(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req models.TrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := s.service.SubmitTraining(&req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, TrainingResponse{
		ID:      req.ID,
		Status:  string(models.ModelStatusQueued),
		Message: "Training job accepted. Check GET /models/{id} for status.",
	})
}

// handlePrediction handles prediction requests against a ready model
func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	id, _ := splitPath(r.URL.Path, "/predictions/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not_found", "Model identifier missing")
		return
	}

	var req models.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		s.writeServiceError(w, err)
		return
	}

	predictions, err := s.service.Predict(id, req.InputData)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PredictionResponse{
		ModelID:     id,
		Predictions: predictions,
		Count:       len(predictions),
	})
}

// writeServiceError maps pipeline errors onto HTTP status codes with a
// unified JSON error envelope.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError

	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, models.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, models.ErrNotReady):
		writeError(w, http.StatusUnprocessableEntity, "model_not_ready", err.Error())
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		log.Printf("Internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
