package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/fgcfantasy/draft-league/internal/usecase"
)

type createTeamRequest struct {
	Name string `json:"name" validate:"required,min=4,max=24"`
}

type pickPlayerRequest struct {
	PlayerName string `json:"player_name" validate:"required"`
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req createTeamRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.teamService.CreateTeam(ctx, usecase.CreateTeamInput{
		UserID: principal.UserID,
		Name:   req.Name,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamDetailToDTO(usecase.TeamDetail{Team: created}))
}

func (h *Handler) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyTeam")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	detail, err := h.teamService.GetMyTeam(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get my team failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamDetailToDTO(detail))
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	detail, err := h.teamService.GetTeam(ctx, principal.UserID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamDetailToDTO(detail))
}

func (h *Handler) PickPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PickPlayer")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req pickPlayerRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.teamService.PickPlayer(ctx, usecase.PickPlayerInput{
		UserID:     principal.UserID,
		PlayerName: req.PlayerName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "pick player failed", "user_id", principal.UserID, "player", req.PlayerName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickResultDTO{
		PlayerName:    result.PlayerName,
		NextTurn:      result.NextTurn,
		DraftComplete: result.DraftComplete,
	})
}

func (h *Handler) GetTeamTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamTimeline")
	defer span.End()

	if _, ok := requirePrincipal(ctx, w); !ok {
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	timeline, err := h.eventService.TeamPointsTimeline(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team timeline failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, timeline)
}
