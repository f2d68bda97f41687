package analytics

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

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

// RegisterRoutes registers dashboards on a counselor/admin subrouter.
func (h *Handler) RegisterRoutes(staff *mux.Router) {
	staff.HandleFunc("/analytics/overview", h.Overview).Methods("GET")
	staff.HandleFunc("/analytics/at-risk", h.AtRisk).Methods("GET")
	staff.HandleFunc("/analytics/export.csv", h.Export).Methods("GET")
}

func caller(r *http.Request) (int64, models.Role, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return 0, "", false
	}
	role, _ := middleware.RoleFromContext(r.Context())
	return userID, role, true
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.Overview(r.Context(), userID, role, r.URL.Query().Get("school"))
	if err != nil {
		writeError(w, err, "Failed to build overview")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) AtRisk(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.AtRisk(r.Context(), userID, role, r.URL.Query().Get("school"))
	if err != nil {
		writeError(w, err, "Failed to list at-risk students")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := caller(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	body, name, err := h.service.Export(r.Context(), userID, role, r.URL.Query().Get("school"))
	if err != nil {
		writeError(w, err, "Failed to export")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrNoSchool) {
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Your account is not linked to a school"})
		return
	}
	log.Printf("[analytics] %s: %v", fallback, err)
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: fallback})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
