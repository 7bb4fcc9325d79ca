package expense

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okarlsson/paysplit/internal/metrics"
	"github.com/okarlsson/paysplit/internal/platform/blob"
	"github.com/okarlsson/paysplit/internal/platform/queue"
	"github.com/okarlsson/paysplit/pkg/middleware"
	"github.com/okarlsson/paysplit/pkg/response"
)

// maxUploadBytes caps CSV uploads at 1MB.
const maxUploadBytes = 1 << 20

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
	blobs   blob.Store
	queue   queue.Queue
}

// NewHandler creates a new expense handler
func NewHandler(service *Service, blobs blob.Store, q queue.Queue) *Handler {
	return &Handler{service: service, blobs: blobs, queue: q}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Post("/upload/{groupId}", h.Upload)
	r.Get("/group/{groupId}", h.ListByGroup)

	return r
}

// Create handles POST /expenses
// @Summary      Create a new expense
// @Description  Record an expense with an equal split over all members or a named subset
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		var invalidIDs *InvalidMemberIDsError
		switch {
		case errors.Is(err, ErrGroupNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotAMember):
			response.Forbidden(w, err.Error())
		case errors.Is(err, ErrInvalidPayer),
			errors.Is(err, ErrInvalidAmount),
			errors.Is(err, ErrEmptyDescription),
			errors.Is(err, ErrEmptySplit),
			errors.As(err, &invalidIDs):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to create expense")
		}
		return
	}

	response.JSON(w, http.StatusCreated, created.ToResponse())
}

// Upload handles POST /expenses/upload/{groupId}
// @Summary      Upload expenses via CSV file
// @Description  Validates CSV structure, stores the raw file, and queues it for asynchronous import
// @Tags         expenses
// @Accept       multipart/form-data
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Param        file formData file true "CSV file (max 1MB)"
// @Success      202 {object} response.APIResponse{data=UploadAcceptedResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /expenses/upload/{groupId} [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}
	groupID := chi.URLParam(r, "groupId")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "File exceeds the 1MB upload limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "A CSV file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "Failed to read uploaded file")
		return
	}

	// Only the structural check runs synchronously; row-level
	// validation is deferred to the worker.
	if structErr := ValidateCSVStructure(string(content)); structErr != nil {
		response.ValidationFailed(w, "CSV validation failed", []RowError{*structErr})
		return
	}

	filename := header.Filename
	if filename == "" {
		filename = "upload.csv"
	}
	filename = filenameSanitizer.ReplaceAllString(filename, "_")
	key := fmt.Sprintf("expenses/%s/%d-%s", groupID, time.Now().UnixMilli(), filename)

	// Store then enqueue; both must succeed before the caller gets an
	// acceptance, otherwise the failure propagates as a server error.
	if err := h.blobs.Put(r.Context(), key, content, "text/csv"); err != nil {
		response.InternalError(w, "Failed to store upload")
		return
	}

	msg, err := json.Marshal(UploadMessage{StorageKey: key, GroupID: groupID, UserID: userID})
	if err != nil {
		response.InternalError(w, "Failed to encode upload message")
		return
	}
	if err := h.queue.Send(r.Context(), string(msg)); err != nil {
		response.InternalError(w, "Failed to queue upload")
		return
	}

	metrics.UploadsAccepted.Inc()
	response.Accepted(w, &UploadAcceptedResponse{
		Message:    "Upload accepted for processing",
		StorageKey: key,
	})
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List expenses for a group
// @Tags         expenses
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	expenses, err := h.service.ListByGroup(r.Context(), chi.URLParam(r, "groupId"), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrGroupNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotAMember):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Failed to list expenses")
		}
		return
	}

	resp := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = e.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}
