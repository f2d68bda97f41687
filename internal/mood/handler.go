package mood

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/campuswell/backend/internal/middleware"
	"github.com/campuswell/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/mood", h.LogMood).Methods("POST")
	protected.HandleFunc("/mood", h.GetMoodHistory).Methods("GET")

	protected.HandleFunc("/journal", h.CreateJournal).Methods("POST")
	protected.HandleFunc("/journal", h.ListJournal).Methods("GET")
	protected.HandleFunc("/journal/{id:[0-9]+}", h.DeleteJournal).Methods("DELETE")
}

func (h *Handler) LogMood(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.LogMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.LogMood(userID, req)
	if err != nil {
		writeError(w, err, "Failed to log mood")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetMoodHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.History(userID, intQueryParam(r.URL.Query(), "days", defaultDays))
	if err != nil {
		writeError(w, err, "Failed to get mood history")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.CreateJournal(userID, req)
	if err != nil {
		writeError(w, err, "Failed to save journal entry")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	q := r.URL.Query()
	resp, err := h.service.ListJournal(userID, q.Get("q"), intQueryParam(q, "page", 1), intQueryParam(q, "page_size", defaultPerPage))
	if err != nil {
		writeError(w, err, "Failed to list journal entries")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteJournal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid entry ID"})
		return
	}

	if err := h.service.DeleteJournal(userID, id); err != nil {
		writeError(w, err, "Failed to delete journal entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: ve.Message})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Entry not found"})
	default:
		log.Printf("[mood] %s: %v", fallback, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: fallback})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
