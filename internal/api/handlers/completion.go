package handlers

import (
	"context"
	"net/http"

	"github.com/pratik-mahalle/arcgate/internal/api/dto"
	"github.com/pratik-mahalle/arcgate/internal/api/middleware"
	"github.com/pratik-mahalle/arcgate/internal/domain/completion"
	"github.com/pratik-mahalle/arcgate/internal/domain/session"
	"github.com/pratik-mahalle/arcgate/internal/pkg/errors"
	"github.com/pratik-mahalle/arcgate/internal/pkg/utils"
)

// CompletionHandler proxies prompts to the two model tiers
type CompletionHandler struct {
	completions completion.Service
}

// NewCompletionHandler creates a new completion handler
func NewCompletionHandler(completions completion.Service) *CompletionHandler {
	return &CompletionHandler{completions: completions}
}

// ArcCore completes a prompt on the core tier
// @Summary arc-core completion
// @Description Any signed-in user
// @Tags Completion
// @Accept json
// @Produce json
// @Param request body dto.CompletionRequest true "Prompt"
// @Success 200 {object} completion.Response
// @Failure 403 {string} string "Unauthorized"
// @Failure 500 {string} string "Arc-Core API error"
// @Router /api/arc-core [post]
func (h *CompletionHandler) ArcCore(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.completions.CompleteBasic)
}

// ArcPlus completes a prompt on the plus tier
// @Summary arc-plus completion
// @Description Subscribers only; premium status is checked against the store
// @Tags Completion
// @Accept json
// @Produce json
// @Param request body dto.CompletionRequest true "Prompt"
// @Success 200 {object} completion.Response
// @Failure 403 {string} string "Arc-Plus access required"
// @Failure 500 {string} string "Arc-Plus API error"
// @Router /api/arc-plus [post]
func (h *CompletionHandler) ArcPlus(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.completions.CompletePremium)
}

type completeFunc func(ctx context.Context, sess *session.Session, prompt string) (*completion.Response, error)

func (h *CompletionHandler) serve(w http.ResponseWriter, r *http.Request, complete completeFunc) {
	var req dto.CompletionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	sess, _ := middleware.GetSession(r)
	resp, err := complete(r.Context(), sess, req.Prompt)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}
