package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerName}/history", handler.GetPlayerHistory)
	mux.HandleFunc("GET /v1/players/{playerName}/timeline", handler.GetPlayerTimeline)
	mux.HandleFunc("GET /v1/events", handler.ListEvents)
	mux.HandleFunc("GET /v1/events/{eventID}/scores", handler.GetEventScores)
	mux.HandleFunc("GET /v1/distributions", handler.ListDistributions)
	mux.HandleFunc("GET /v1/standings/players", handler.GetGlobalPlayerStandings)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedLeagueRoutes(mux, handler, verifier)
	registerAuthorizedTeamRoutes(mux, handler, verifier)
	registerAuthorizedStandingsRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/score-event", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScoreEventJob)))
	mux.Handle("POST /v1/internal/jobs/resync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunResyncJob)))
	mux.Handle("POST /v1/internal/jobs/seed-distributions", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSeedDistributionsJob)))
	mux.Handle("POST /v1/internal/jobs/append-event", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAppendEventJob)))
}

func registerAuthorizedLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("GET /v1/leagues/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyLeague)))
	mux.Handle("POST /v1/leagues/{leagueID}/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("DELETE /v1/leagues/me/membership", RequireAuth(verifier, http.HandlerFunc(handler.LeaveLeague)))
	mux.Handle("PUT /v1/leagues/me/forfeit", RequireAuth(verifier, http.HandlerFunc(handler.SetForfeit)))
	mux.Handle("PUT /v1/leagues/me/draft-order", RequireAuth(verifier, http.HandlerFunc(handler.AssignDraftOrder)))
	mux.Handle("POST /v1/leagues/me/draft/begin", RequireAuth(verifier, http.HandlerFunc(handler.BeginDraft)))
}

func registerAuthorizedTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/teams", RequireAuth(verifier, http.HandlerFunc(handler.CreateTeam)))
	mux.Handle("GET /v1/teams/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyTeam)))
	mux.Handle("GET /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.GetTeam)))
	mux.Handle("GET /v1/teams/{teamID}/timeline", RequireAuth(verifier, http.HandlerFunc(handler.GetTeamTimeline)))
	mux.Handle("POST /v1/teams/me/picks", RequireAuth(verifier, http.HandlerFunc(handler.PickPlayer)))
}

func registerAuthorizedStandingsRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/standings/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMyStandings)))
	mux.Handle("GET /v1/standings/league", RequireAuth(verifier, http.HandlerFunc(handler.GetLeagueStandings)))
}
