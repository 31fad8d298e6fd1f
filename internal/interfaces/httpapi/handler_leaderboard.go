package httpapi

import (
	"net/http"
)

func (h *Handler) GetMyStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyStandings")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	standings, err := h.leaderboardService.MyStandings(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get my standings failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standings)
}

func (h *Handler) GetLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueStandings")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	standings, err := h.leaderboardService.LeagueStandings(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league standings failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standings)
}

func (h *Handler) GetGlobalPlayerStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGlobalPlayerStandings")
	defer span.End()

	players, err := h.leaderboardService.GlobalPlayerStandings(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get global player standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
