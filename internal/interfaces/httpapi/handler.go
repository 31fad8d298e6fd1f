package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fgcfantasy/draft-league/internal/domain/event"
	"github.com/fgcfantasy/draft-league/internal/domain/league"
	"github.com/fgcfantasy/draft-league/internal/domain/manager"
	"github.com/fgcfantasy/draft-league/internal/domain/player"
	"github.com/fgcfantasy/draft-league/internal/domain/scoring"
	"github.com/fgcfantasy/draft-league/internal/domain/user"
	"github.com/fgcfantasy/draft-league/internal/usecase"
)

type Handler struct {
	leagueService      *usecase.LeagueService
	teamService        *usecase.TeamService
	scoringService     *usecase.ScoringService
	leaderboardService *usecase.LeaderboardService
	eventService       *usecase.EventService
	logger             *slog.Logger
	validator          *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	teamService *usecase.TeamService,
	scoringService *usecase.ScoringService,
	leaderboardService *usecase.LeaderboardService,
	eventService *usecase.EventService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		leagueService:      leagueService,
		teamService:        teamService,
		scoringService:     scoringService,
		leaderboardService: leaderboardService,
		eventService:       eventService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func requirePrincipal(ctx context.Context, w http.ResponseWriter) (user.Principal, bool) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return user.Principal{}, false
	}

	return principal, true
}

type leagueDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	OwnerID       string   `json:"owner_id"`
	Locked        bool     `json:"locked"`
	DraftOrder    []string `json:"draft_order"`
	PickTurn      string   `json:"pick_turn"`
	PickDirection int      `json:"pick_direction"`
	DraftComplete bool     `json:"draft_complete"`
	Forfeit       string   `json:"forfeit"`
}

type memberDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type leagueDetailDTO struct {
	League  leagueDTO   `json:"league"`
	Members []memberDTO `json:"members"`
}

type teamSlotDTO struct {
	PlayerName string  `json:"player_name"`
	Region     string  `json:"region"`
	Points     int     `json:"points"`
	JoinedAt   string  `json:"joined_at"`
	LeftAt     *string `json:"left_at,omitempty"`
}

type teamDetailDTO struct {
	ID          string        `json:"id"`
	LeagueID    string        `json:"league_id"`
	OwnerID     string        `json:"owner_id"`
	Name        string        `json:"name"`
	TotalPoints int           `json:"total_points"`
	Slots       []teamSlotDTO `json:"slots"`
}

type pickResultDTO struct {
	PlayerName    string `json:"player_name"`
	NextTurn      string `json:"next_turn"`
	DraftComplete bool   `json:"draft_complete"`
}

type playerDTO struct {
	Name      string `json:"name"`
	Region    string `json:"region"`
	CumPoints int    `json:"cum_points"`
}

type eventDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Tier         int    `json:"tier"`
	StartWeekend string `json:"start_weekend"`
	Image        string `json:"image"`
	Complete     bool   `json:"complete"`
}

type scoreDTO struct {
	PlayerName string `json:"player_name"`
	Rank       int    `json:"rank"`
	Points     int    `json:"points"`
}

type distributionDTO struct {
	Tier     int         `json:"tier"`
	Brackets map[int]int `json:"brackets"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:            v.ID,
		Name:          v.Name,
		OwnerID:       v.OwnerID,
		Locked:        v.Locked,
		DraftOrder:    append([]string(nil), v.DraftOrder...),
		PickTurn:      v.PickTurn,
		PickDirection: v.PickDirection,
		DraftComplete: v.DraftComplete,
		Forfeit:       v.Forfeit,
	}
}

func leagueDetailToDTO(v usecase.LeagueDetail) leagueDetailDTO {
	members := make([]memberDTO, 0, len(v.Members))
	for _, m := range v.Members {
		members = append(members, managerToDTO(m))
	}

	return leagueDetailDTO{
		League:  leagueToDTO(v.League),
		Members: members,
	}
}

func managerToDTO(v manager.Manager) memberDTO {
	return memberDTO{ID: v.ID, Name: v.Name}
}

func teamDetailToDTO(v usecase.TeamDetail) teamDetailDTO {
	slots := make([]teamSlotDTO, 0, len(v.Slots))
	for _, s := range v.Slots {
		dto := teamSlotDTO{
			PlayerName: s.PlayerName,
			Region:     s.Region,
			Points:     s.Points,
			JoinedAt:   s.JoinedAt.UTC().Format(time.RFC3339),
		}
		if s.LeftAt != nil {
			left := s.LeftAt.UTC().Format(time.RFC3339)
			dto.LeftAt = &left
		}
		slots = append(slots, dto)
	}

	return teamDetailDTO{
		ID:          v.Team.ID,
		LeagueID:    v.Team.LeagueID,
		OwnerID:     v.Team.OwnerID,
		Name:        v.Team.Name,
		TotalPoints: v.TotalPoints,
		Slots:       slots,
	}
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		Name:      v.Name,
		Region:    v.Region,
		CumPoints: v.CumPoints,
	}
}

func eventToDTO(v event.Event) eventDTO {
	return eventDTO{
		ID:           v.ID,
		Name:         v.Name,
		Tier:         v.Tier,
		StartWeekend: v.StartWeekend.UTC().Format(time.DateOnly),
		Image:        v.Image,
		Complete:     v.Complete,
	}
}

func scoreToDTO(v scoring.Score) scoreDTO {
	return scoreDTO{
		PlayerName: v.Player,
		Rank:       v.Rank,
		Points:     v.Points,
	}
}

func distributionToDTO(v scoring.Distribution) distributionDTO {
	brackets := make(map[int]int, len(v.Points))
	for rank, pts := range v.Points {
		brackets[rank] = pts
	}

	return distributionDTO{Tier: v.Tier, Brackets: brackets}
}
