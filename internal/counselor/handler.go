package counselor

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
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

// RegisterStudentRoutes registers the student side on a student-only subrouter.
func (h *Handler) RegisterStudentRoutes(student *mux.Router) {
	student.HandleFunc("/counselor-requests", h.Create).Methods("POST")
	student.HandleFunc("/counselor-requests", h.ListMine).Methods("GET")
	student.HandleFunc("/counselor-requests/{id:[0-9]+}/cancel", h.action(ActionCancel)).Methods("POST")
}

// RegisterCounselorRoutes registers the counselor queue on a counselor-only subrouter.
func (h *Handler) RegisterCounselorRoutes(counselor *mux.Router) {
	counselor.HandleFunc("/counselor/requests", h.ListQueue).Methods("GET")
	counselor.HandleFunc("/counselor/requests/{id:[0-9]+}/accept", h.action(ActionAccept)).Methods("POST")
	counselor.HandleFunc("/counselor/requests/{id:[0-9]+}/decline", h.action(ActionDecline)).Methods("POST")
	counselor.HandleFunc("/counselor/requests/{id:[0-9]+}/complete", h.action(ActionComplete)).Methods("POST")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateCounselorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Create(userID, req)
	if err != nil {
		writeError(w, err, "Failed to create request")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.ListMine(userID)
	if err != nil {
		writeError(w, err, "Failed to list requests")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListQueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.ListForCounselor(userID, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err, "Failed to list requests")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) action(a Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
			return
		}
		role, _ := middleware.RoleFromContext(r.Context())

		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request ID"})
			return
		}

		var body models.RequestActionBody
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
				return
			}
		}

		resp, err := h.service.Act(userID, role, id, a, body.Note)
		if err != nil {
			writeError(w, err, "Failed to update request")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: ve.Message})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Request not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Not allowed"})
	case errors.Is(err, ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Request cannot make that change in its current state"})
	case errors.Is(err, ErrOpenRequestExists):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "You already have an open request"})
	default:
		log.Printf("[counselor] %s: %v", fallback, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: fallback})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
