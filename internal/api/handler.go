package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"pwcards/internal/cards"
	"pwcards/internal/model"
)

// NewHandler serves the password-cards endpoints on top of any cards.API.
// Paired with a MemoryAPI it is a throwaway local server for trying the client.
func NewHandler(backend cards.API, logger *slog.Logger) http.Handler {
	h := &handler{backend: backend, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc(CardsPath, h.list).Methods(http.MethodGet)
	r.HandleFunc(CardsPath, h.create).Methods(http.MethodPost)
	r.HandleFunc(CardsPath+"/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc(CardsPath+"/{id}", h.delete).Methods(http.MethodDelete)
	r.Use(h.logRequests)
	return r
}

type handler struct {
	backend cards.API
	logger  *slog.Logger
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Info("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.backend.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var entry model.PasswordEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Status:  http.StatusBadRequest,
			Message: "The request is invalid in some way.",
			Error:   err.Error(),
		})
		return
	}

	created, err := h.backend.Create(r.Context(), entry)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var entry model.PasswordEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Status:  http.StatusBadRequest,
			Message: "The request is invalid in some way.",
			Error:   err.Error(),
		})
		return
	}

	updated, err := h.backend.Update(r.Context(), id, entry)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.backend.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	var se *StatusError
	if errors.As(err, &se) {
		writeJSON(w, se.Code, ErrorResponse{Status: se.Code, Message: se.Message, Error: se.Detail})
		return
	}

	h.logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Status:  http.StatusInternalServerError,
		Message: "Internal Server Error.",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
