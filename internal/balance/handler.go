package balance

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okarlsson/paysplit/pkg/middleware"
	"github.com/okarlsson/paysplit/pkg/response"
)

// Handler handles HTTP requests for balance queries
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/group/{groupId}", h.GetGroupBalances)
	r.Get("/group/{groupId}/suggest", h.SuggestSettlements)

	return r
}

// GetGroupBalances handles GET /balances/group/{groupId}
// @Summary      Get group balances
// @Description  Per-member paid, owed, settlement, and net balance totals
// @Tags         balances
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=BalanceResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /balances/group/{groupId} [get]
func (h *Handler) GetGroupBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	balances, err := h.service.GetGroupBalances(r.Context(), chi.URLParam(r, "groupId"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, balances)
}

// SuggestSettlements handles GET /balances/group/{groupId}/suggest
// @Summary      Suggest settlements
// @Description  Greedy payment plan that settles all net balances
// @Tags         balances
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]SettlementSuggestion}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /balances/group/{groupId}/suggest [get]
func (h *Handler) SuggestSettlements(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	suggestions, err := h.service.SuggestSettlements(r.Context(), chi.URLParam(r, "groupId"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, suggestions)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAMember):
		response.Forbidden(w, err.Error())
	default:
		response.InternalError(w, "Failed to compute balances")
	}
}
