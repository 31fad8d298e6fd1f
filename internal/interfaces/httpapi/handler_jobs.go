package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fgcfantasy/draft-league/internal/infrastructure/repository/memory"
	"github.com/fgcfantasy/draft-league/internal/usecase"
)

type scoreEventJobRequest struct {
	EventID        string   `json:"event_id" validate:"required"`
	OrderedPlayers []string `json:"ordered_players" validate:"required,min=1,max=64,dive,required"`
}

type resyncJobRequest struct {
	MaxWorkers int `json:"max_workers" validate:"min=0,max=16"`
}

type appendEventJobRequest struct {
	Name         string `json:"name" validate:"required"`
	Tier         int    `json:"tier" validate:"required,min=1"`
	StartWeekend string `json:"start_weekend" validate:"required"`
}

func (h *Handler) RunScoreEventJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoreEventJob")
	defer span.End()

	var req scoreEventJobRequest
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

	result, err := h.scoringService.ScoreEvent(ctx, usecase.ScoreEventInput{
		EventID:        req.EventID,
		OrderedPlayers: req.OrderedPlayers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "score event job failed", "event_id", req.EventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "event scored", "event_id", result.EventID, "rows", result.Rows)
	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"event_id": result.EventID,
		"rows":     result.Rows,
	})
}

func (h *Handler) RunResyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResyncJob")
	defer span.End()

	var req resyncJobRequest
	if r.Body != nil && r.ContentLength != 0 {
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
	}

	result, err := h.scoringService.ResyncAllLeagues(ctx, usecase.ResyncInput{MaxWorkers: req.MaxWorkers})
	if err != nil {
		h.logger.ErrorContext(ctx, "resync job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSeedDistributionsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSeedDistributionsJob")
	defer span.End()

	if err := h.scoringService.SeedDistributions(ctx, memory.SeedDistributions()); err != nil {
		h.logger.ErrorContext(ctx, "seed distributions job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "seeded"})
}

func (h *Handler) RunAppendEventJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAppendEventJob")
	defer span.End()

	var req appendEventJobRequest
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

	startWeekend, err := time.Parse(time.DateOnly, req.StartWeekend)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: start_weekend must be YYYY-MM-DD: %v", usecase.ErrInvalidInput, err))
		return
	}

	created, err := h.eventService.AppendEvent(ctx, usecase.AppendEventInput{
		Name:         req.Name,
		Tier:         req.Tier,
		StartWeekend: startWeekend,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "append event job failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, eventToDTO(created))
}
