package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/avelin/recordkeep/internal/domain"
	"github.com/avelin/recordkeep/internal/service"
)

// RecordHandler handles record CRUD HTTP requests. All routes require an
// authenticated user and operate only on that user's records.
type RecordHandler struct {
	records *service.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(records *service.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// HandleCreate creates a new record.
// POST /api/records
// Request:  {"title":"...","body":"...","done":false}
// Response: {"record": {...}}
func (h *RecordHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Done  bool   `json:"done"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user := UserFromContext(r.Context())
	record := &domain.Record{
		UserID: user.ID,
		Title:  req.Title,
		Body:   req.Body,
		Done:   req.Done,
	}
	if err := h.records.Create(r.Context(), record); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("create record", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"record": toRecordDTO(record),
	})
}

// HandleList lists the user's records.
// GET /api/records
// Response: {"records": [...]}
func (h *RecordHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	records, err := h.records.ListByUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("list records", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": toRecordDTOs(records),
	})
}

// HandleGet returns a single record.
// GET /api/records/{id}
// Response: {"record": {...}}
func (h *RecordHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid record id.")
		return
	}

	user := UserFromContext(r.Context())
	record, err := h.records.GetByID(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Record not found.")
			return
		}
		slog.Error("get record", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"record": toRecordDTO(record),
	})
}

// HandleUpdate updates a record.
// PUT /api/records/{id}
// Request:  {"title":"...","body":"...","done":true}
// Response: {"record": {...}}
func (h *RecordHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid record id.")
		return
	}

	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Done  bool   `json:"done"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user := UserFromContext(r.Context())
	record := &domain.Record{
		ID:    id,
		Title: req.Title,
		Body:  req.Body,
		Done:  req.Done,
	}
	if err := h.records.Update(r.Context(), user.ID, record); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Record not found.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("update record", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"record": toRecordDTO(record),
	})
}

// HandleDelete deletes a record.
// DELETE /api/records/{id}
// Response: 204 No Content
func (h *RecordHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := recordID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid record id.")
		return
	}

	user := UserFromContext(r.Context())
	if err := h.records.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Record not found.")
			return
		}
		slog.Error("delete record", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func recordID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
