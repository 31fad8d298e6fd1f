package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvents")
	defer span.End()

	events, err := h.eventService.ListEvents(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list events failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eventDTO, 0, len(events))
	for _, e := range events {
		items = append(items, eventToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetEventScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventScores")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	scores, err := h.eventService.EventScoreHistory(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "get event scores failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]scoreDTO, 0, len(scores))
	for _, s := range scores {
		items = append(items, scoreToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	players, err := h.leaderboardService.GlobalPlayerStandings(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayerHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerHistory")
	defer span.End()

	playerName := strings.TrimSpace(r.PathValue("playerName"))
	history, err := h.eventService.PlayerScoreHistory(ctx, playerName, nil, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "get player history failed", "player", playerName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, history)
}

func (h *Handler) GetPlayerTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerTimeline")
	defer span.End()

	playerName := strings.TrimSpace(r.PathValue("playerName"))
	timeline, err := h.eventService.PlayerPointsTimeline(ctx, playerName, nil, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "get player timeline failed", "player", playerName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, timeline)
}

func (h *Handler) ListDistributions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDistributions")
	defer span.End()

	dists, err := h.scoringService.ListDistributions(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list distributions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]distributionDTO, 0, len(dists))
	for _, d := range dists {
		items = append(items, distributionToDTO(d))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
