package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"

	"github.com/openpitch/draftd/internal/draft"
	"github.com/openpitch/draftd/internal/gateway"
)

// Handlers serves the draft HTTP surface.
type Handlers struct {
	app    *draft.App
	cm     *gateway.ConnectionManager
	render *render.Render
}

func NewHandlers(app *draft.App, cm *gateway.ConnectionManager) *Handlers {
	return &Handlers{app: app, cm: cm, render: newRender()}
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps draft sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, draft.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, draft.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, draft.ErrInvalidState),
		errors.Is(err, draft.ErrNotYourTurn),
		errors.Is(err, draft.ErrAlreadyDrafted),
		errors.Is(err, draft.ErrSlotConflict):
		return http.StatusConflict
	case errors.Is(err, draft.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		h.render.JSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	h.render.JSON(w, status, errorResponse{Error: err.Error()})
}

func leagueID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "leagueID"))
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) startDraft(w http.ResponseWriter, r *http.Request) {
	id, err := leagueID(r)
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid league id"})
		return
	}

	if err := h.app.StartDraft(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	status, err := h.app.GetDraftStatus(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.render.JSON(w, http.StatusOK, status)
}

func (h *Handlers) draftStatus(w http.ResponseWriter, r *http.Request) {
	id, err := leagueID(r)
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid league id"})
		return
	}

	status, err := h.app.GetDraftStatus(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.render.JSON(w, http.StatusOK, status)
}

func (h *Handlers) listPicks(w http.ResponseWriter, r *http.Request) {
	id, err := leagueID(r)
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid league id"})
		return
	}

	board, err := h.app.GetPickBoard(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.render.JSON(w, http.StatusOK, board)
}

type submitPickBody struct {
	TeamID     uuid.UUID `json:"team_id"`
	Round      int       `json:"round"`
	Pick       int       `json:"pick"`
	PlayerID   uuid.UUID `json:"player_id"`
	IsAutoPick bool      `json:"is_auto_pick"`
}

// pickCommitted is the submit-pick response: the committed pick with its
// team and player joined in.
type pickCommitted struct {
	draft.PickDetail
	IsDraftComplete bool `json:"is_draft_complete"`
}

func (h *Handlers) submitPick(w http.ResponseWriter, r *http.Request) {
	id, err := leagueID(r)
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid league id"})
		return
	}

	var body submitPickBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.render.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	pick, err := h.app.SubmitPick(r.Context(), draft.SubmitPickRequest{
		LeagueID:   id,
		TeamID:     body.TeamID,
		Round:      body.Round,
		Pick:       body.Pick,
		PlayerID:   body.PlayerID,
		IsAutoPick: body.IsAutoPick,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	detail, complete, err := h.app.DescribePick(r.Context(), pick)
	if err != nil {
		// The pick is committed; degrade to the bare row rather than fail.
		log.Warn().Err(err).Str("league_id", id.String()).Msg("failed to join committed pick")
		detail = &draft.PickDetail{DraftPick: *pick}
	}
	h.render.JSON(w, http.StatusCreated, pickCommitted{PickDetail: *detail, IsDraftComplete: complete})
}

func (h *Handlers) availablePlayers(w http.ResponseWriter, r *http.Request) {
	id, err := leagueID(r)
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid league id"})
		return
	}

	available, err := h.app.GetAvailablePlayers(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.render.JSON(w, http.StatusOK, available)
}

func (h *Handlers) draftOrder(w http.ResponseWriter, r *http.Request) {
	id, err := leagueID(r)
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid league id"})
		return
	}

	order, err := h.app.GetDraftOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.render.JSON(w, http.StatusOK, order)
}

func (h *Handlers) watchDraft(w http.ResponseWriter, r *http.Request) {
	id, err := leagueID(r)
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid league id"})
		return
	}

	if err := h.cm.Upgrade(w, r, id); err != nil {
		log.Error().Err(err).Str("league_id", id.String()).Msg("websocket upgrade failed")
	}
}
