package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushub/competition-api/internal/api/handler/v1/request"
	"github.com/campushub/competition-api/internal/api/handler/v1/response"
	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/service"
)

type SubmissionService interface {
	SubmitProject(ctx context.Context, teamID, actingUserID uint, fields domain.SubmissionFields) (domain.Submission, error)
	GetSubmission(ctx context.Context, teamID uint) (domain.Submission, error)
}

type SubmissionHandler struct {
	svc SubmissionService
}

func NewSubmissionHandler(svc SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		svc: svc,
	}
}

// HandleSubmitProject creates or overwrites the team's submission. Only the
// team leader may write, and only while the competition accepts submissions.
func (h *SubmissionHandler) HandleSubmitProject(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	teamID, err := strconv.ParseUint(ctx.Param("teamID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid team ID: %w", err)))
		return
	}

	var req request.SubmitProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	fields := domain.SubmissionFields{
		Description: req.Description,
		RepoURL:     req.RepoURL,
		DemoURL:     req.DemoURL,
		ArtifactURL: req.ArtifactURL,
	}

	submission, err := h.svc.SubmitProject(ctx.Request.Context(), uint(teamID), userID, fields)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTeamNotFound):
			response.RenderErr(ctx, response.ErrNotFound("team", "ID", teamID))
		case errors.Is(err, service.ErrNotLeader):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotLeader))
		case errors.Is(err, service.ErrTeamWithdrawn):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTeamWithdrawn))
		case errors.Is(err, service.ErrSubmissionClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrSubmissionClosed))
		default:
			err = fmt.Errorf("HandleSubmitProject -> h.svc.SubmitProject -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.SubmissionResponse{
		SubmissionID: submission.ID,
		Status:       submission.Status,
		Submission:   submission,
	})
}

func (h *SubmissionHandler) HandleGetSubmission(ctx *gin.Context) {
	teamID, err := strconv.ParseUint(ctx.Param("teamID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid team ID: %w", err)))
		return
	}

	submission, err := h.svc.GetSubmission(ctx.Request.Context(), uint(teamID))
	if err != nil {
		if errors.Is(err, service.ErrSubmissionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("submission", "teamID", teamID))
			return
		}

		err = fmt.Errorf("HandleGetSubmission -> h.svc.GetSubmission -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.SubmissionResponse{
		SubmissionID: submission.ID,
		Status:       submission.Status,
		Submission:   submission,
	})
}
