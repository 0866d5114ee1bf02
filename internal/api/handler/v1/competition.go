package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushub/competition-api/internal/api/handler/v1/request"
	"github.com/campushub/competition-api/internal/api/handler/v1/response"
	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/service"
)

type CompetitionService interface {
	CreateCompetition(ctx context.Context, competition domain.Competition) (domain.Competition, error)
	GetCompetition(ctx context.Context, id uint) (domain.Competition, error)
}

type JudgingService interface {
	RecordScore(ctx context.Context, submissionID, judgeID uint, criteria []domain.CriterionScore) (domain.ScoreEntry, error)
	StartJudging(ctx context.Context, competitionID uint) error
	LockAndRank(ctx context.Context, competitionID uint) ([]domain.LeaderboardEntry, error)
	Publish(ctx context.Context, competitionID uint) error
	GetLeaderboard(ctx context.Context, competitionID uint, viewerIsOrganizer bool) (service.Leaderboard, error)
}

// eventPollInterval is how often the SSE stream checks for state changes.
const eventPollInterval = 2 * time.Second

type CompetitionHandler struct {
	svc        CompetitionService
	judgingSvc JudgingService
}

func NewCompetitionHandler(svc CompetitionService, judgingSvc JudgingService) *CompetitionHandler {
	return &CompetitionHandler{
		svc:        svc,
		judgingSvc: judgingSvc,
	}
}

func (h *CompetitionHandler) requireOrganizer(ctx *gin.Context) bool {
	role, respErr := currentUserRole(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return false
	}

	if role != "organizer" {
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("only organizers may perform this action")))
		return false
	}

	return true
}

func (h *CompetitionHandler) HandleCreateCompetition(ctx *gin.Context) {
	if !h.requireOrganizer(ctx) {
		return
	}

	var req request.CreateCompetitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if req.MinTeamSize == 0 {
		req.MinTeamSize = 1
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	deadline, err := time.Parse(time.RFC3339, req.RegistrationDeadline)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid registration deadline: %v", err)))
		return
	}

	if req.MinTeamSize > req.MaxTeamSize {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("min team size exceeds max team size")))
		return
	}

	competition := domain.Competition{
		Name:                 req.Name,
		State:                domain.CompetitionOpen,
		MinTeamSize:          req.MinTeamSize,
		MaxTeamSize:          req.MaxTeamSize,
		RegistrationDeadline: deadline,
	}

	created, err := h.svc.CreateCompetition(ctx.Request.Context(), competition)
	if err != nil {
		err = fmt.Errorf("HandleCreateCompetition -> h.svc.CreateCompetition -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

func (h *CompetitionHandler) HandleGetCompetition(ctx *gin.Context) {
	competitionID, err := strconv.ParseUint(ctx.Param("competitionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid competition ID: %w", err)))
		return
	}

	competition, err := h.svc.GetCompetition(ctx.Request.Context(), uint(competitionID))
	if err != nil {
		if errors.Is(err, service.ErrCompetitionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("competition", "ID", competitionID))
			return
		}

		err = fmt.Errorf("HandleGetCompetition -> h.svc.GetCompetition -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, competition)
}

func (h *CompetitionHandler) HandleStartJudging(ctx *gin.Context) {
	if !h.requireOrganizer(ctx) {
		return
	}

	competitionID, err := strconv.ParseUint(ctx.Param("competitionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid competition ID: %w", err)))
		return
	}

	if err := h.judgingSvc.StartJudging(ctx.Request.Context(), uint(competitionID)); err != nil {
		switch {
		case errors.Is(err, service.ErrCompetitionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("competition", "ID", competitionID))
		case errors.Is(err, service.ErrCompetitionNotOpen):
			response.RenderErr(ctx, response.ErrConflict(service.ErrCompetitionNotOpen))
		default:
			err = fmt.Errorf("HandleStartJudging -> h.judgingSvc.StartJudging -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "judging started"})
}

// HandleLockAndRank freezes the leaderboard. When two organizers race, the
// loser gets a 409 carrying the snapshot the winner committed.
func (h *CompetitionHandler) HandleLockAndRank(ctx *gin.Context) {
	if !h.requireOrganizer(ctx) {
		return
	}

	competitionID, err := strconv.ParseUint(ctx.Param("competitionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid competition ID: %w", err)))
		return
	}

	entries, err := h.judgingSvc.LockAndRank(ctx.Request.Context(), uint(competitionID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyLocked):
			ctx.AbortWithStatusJSON(http.StatusConflict, response.LockConflictResponse{
				Error:   service.ErrAlreadyLocked.Error(),
				Entries: toLeaderboardEntries(entries),
			})
		case errors.Is(err, service.ErrCompetitionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("competition", "ID", competitionID))
		case errors.Is(err, service.ErrNotJudging):
			response.RenderErr(ctx, response.ErrConflict(service.ErrNotJudging))
		default:
			err = fmt.Errorf("HandleLockAndRank -> h.judgingSvc.LockAndRank -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.LeaderboardResponse{
		Locked:  true,
		Entries: toLeaderboardEntries(entries),
	})
}

func (h *CompetitionHandler) HandlePublish(ctx *gin.Context) {
	if !h.requireOrganizer(ctx) {
		return
	}

	competitionID, err := strconv.ParseUint(ctx.Param("competitionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid competition ID: %w", err)))
		return
	}

	if err := h.judgingSvc.Publish(ctx.Request.Context(), uint(competitionID)); err != nil {
		switch {
		case errors.Is(err, service.ErrCompetitionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("competition", "ID", competitionID))
		case errors.Is(err, service.ErrNotLocked):
			response.RenderErr(ctx, response.ErrConflict(service.ErrNotLocked))
		default:
			err = fmt.Errorf("HandlePublish -> h.judgingSvc.Publish -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "results published"})
}

func (h *CompetitionHandler) HandleGetLeaderboard(ctx *gin.Context) {
	role, respErr := currentUserRole(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	competitionID, err := strconv.ParseUint(ctx.Param("competitionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid competition ID: %w", err)))
		return
	}

	viewerIsOrganizer := role == "organizer" || role == "judge"

	leaderboard, err := h.judgingSvc.GetLeaderboard(ctx.Request.Context(), uint(competitionID), viewerIsOrganizer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompetitionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("competition", "ID", competitionID))
		case errors.Is(err, service.ErrLockedUnpublished):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrLockedUnpublished))
		case errors.Is(err, service.ErrNotLocked):
			response.RenderErr(ctx, response.ErrConflict(service.ErrNotLocked))
		default:
			err = fmt.Errorf("HandleGetLeaderboard -> h.judgingSvc.GetLeaderboard -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.LeaderboardResponse{
		Locked:    leaderboard.Locked,
		Published: leaderboard.Published,
		Entries:   toLeaderboardEntries(leaderboard.Entries),
	})
}

func (h *CompetitionHandler) HandleRecordScore(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	role, respErr := currentUserRole(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if role != "judge" {
		response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("only judges may record scores")))
		return
	}

	submissionID, err := strconv.ParseUint(ctx.Param("submissionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid submission ID: %w", err)))
		return
	}

	var req request.RecordScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	criteria := make([]domain.CriterionScore, len(req.Criteria))
	for i, c := range req.Criteria {
		criteria[i] = domain.CriterionScore{
			Name:   c.Name,
			Score:  c.Score,
			Weight: c.Weight,
		}
	}

	entry, err := h.judgingSvc.RecordScore(ctx.Request.Context(), uint(submissionID), userID, criteria)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubmissionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("submission", "ID", submissionID))
		case errors.Is(err, service.ErrNotJudging):
			response.RenderErr(ctx, response.ErrConflict(service.ErrNotJudging))
		case errors.Is(err, service.ErrNoCriteria):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNoCriteria))
		default:
			err = fmt.Errorf("HandleRecordScore -> h.judgingSvc.RecordScore -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.ScoreRecordedResponse{
		ScoreEntryID: entry.ID,
		Total:        entry.Total,
	})
}

// HandleEvents streams competition state transitions over SSE. Clients get an
// initial "state" event immediately, then one for every observed change.
func (h *CompetitionHandler) HandleEvents(ctx *gin.Context) {
	competitionID, err := strconv.ParseUint(ctx.Param("competitionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid competition ID: %w", err)))
		return
	}

	competition, err := h.svc.GetCompetition(ctx.Request.Context(), uint(competitionID))
	if err != nil {
		if errors.Is(err, service.ErrCompetitionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("competition", "ID", competitionID))
			return
		}

		err = fmt.Errorf("HandleEvents -> h.svc.GetCompetition -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")

	lastState := competition.State
	ctx.SSEvent("state", gin.H{
		"competition_id": competition.ID,
		"state":          lastState,
	})
	ctx.Writer.Flush()

	ticker := time.NewTicker(eventPollInterval)
	defer ticker.Stop()

	ctx.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Request.Context().Done():
			return false
		case <-ticker.C:
			current, err := h.svc.GetCompetition(ctx.Request.Context(), uint(competitionID))
			if err != nil {
				return false
			}

			if current.State != lastState {
				lastState = current.State
				ctx.SSEvent("state", gin.H{
					"competition_id": current.ID,
					"state":          current.State,
				})
			}

			return true
		}
	})
}

func toLeaderboardEntries(entries []domain.LeaderboardEntry) []response.LeaderboardEntryResponse {
	out := make([]response.LeaderboardEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = response.LeaderboardEntryResponse{
			TeamID: e.TeamID,
			Rank:   e.Rank,
			Score:  e.Score,
		}
	}

	return out
}
