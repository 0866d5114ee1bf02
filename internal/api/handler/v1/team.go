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

type TeamService interface {
	CreateTeam(ctx context.Context, competitionID uint, name string, leaderUserID uint) (domain.Team, error)
	JoinTeam(ctx context.Context, competitionID uint, userID uint, joinCode string) (domain.Membership, error)
	LeaveTeam(ctx context.Context, teamID, userID uint) error
	TransferLeadership(ctx context.Context, teamID, fromUserID, toUserID uint) error
	GetTeam(ctx context.Context, teamID uint) (domain.Team, error)
}

type TeamHandler struct {
	svc TeamService
}

func NewTeamHandler(svc TeamService) *TeamHandler {
	return &TeamHandler{
		svc: svc,
	}
}

// HandleCreateTeam creates a team and makes the caller its leader. The join
// code is returned once here and never exposed on reads by other members.
func (h *TeamHandler) HandleCreateTeam(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	competitionID, err := strconv.ParseUint(ctx.Param("competitionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid competition ID: %w", err)))
		return
	}

	var req request.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	team, err := h.svc.CreateTeam(ctx.Request.Context(), uint(competitionID), req.Name, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompetitionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("competition", "ID", competitionID))
		case errors.Is(err, service.ErrRegistrationClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrRegistrationClosed))
		case errors.Is(err, service.ErrDuplicateTeamName):
			response.RenderErr(ctx, response.ErrConflict(service.ErrDuplicateTeamName))
		case errors.Is(err, service.ErrAlreadyOnTeam):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyOnTeam))
		default:
			err = fmt.Errorf("HandleCreateTeam -> h.svc.CreateTeam -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.TeamCreatedResponse{
		TeamID:   team.ID,
		JoinCode: team.JoinCode,
	})
}

func (h *TeamHandler) HandleJoinTeam(ctx *gin.Context) {
	userID, respErr := currentUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	competitionID, err := strconv.ParseUint(ctx.Param("competitionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid competition ID: %w", err)))
		return
	}

	var req request.JoinTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	membership, err := h.svc.JoinTeam(ctx.Request.Context(), uint(competitionID), userID, req.JoinCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompetitionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("competition", "ID", competitionID))
		case errors.Is(err, service.ErrRegistrationClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrRegistrationClosed))
		case errors.Is(err, service.ErrInvalidJoinCode):
			response.RenderErr(ctx, response.ErrNotFound("team", "join code", req.JoinCode))
		case errors.Is(err, service.ErrTeamFull):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTeamFull))
		case errors.Is(err, service.ErrAlreadyOnTeam):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyOnTeam))
		default:
			err = fmt.Errorf("HandleJoinTeam -> h.svc.JoinTeam -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.TeamJoinedResponse{
		TeamID:       membership.TeamID,
		MembershipID: membership.ID,
	})
}

func (h *TeamHandler) HandleGetTeam(ctx *gin.Context) {
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

	team, err := h.svc.GetTeam(ctx.Request.Context(), uint(teamID))
	if err != nil {
		if errors.Is(err, service.ErrTeamNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("team", "ID", teamID))
			return
		}

		err = fmt.Errorf("HandleGetTeam -> h.svc.GetTeam -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	// Only the leader sees the join code.
	if team.LeaderID != userID {
		team.JoinCode = ""
	}

	roster := team.Roster
	team.Roster = nil

	ctx.JSON(http.StatusOK, response.TeamResponse{
		Team:   team,
		Roster: roster,
	})
}

func (h *TeamHandler) HandleLeaveTeam(ctx *gin.Context) {
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

	if err := h.svc.LeaveTeam(ctx.Request.Context(), uint(teamID), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrTeamNotFound):
			response.RenderErr(ctx, response.ErrNotFound("team", "ID", teamID))
		case errors.Is(err, service.ErrNotOnTeam):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNotOnTeam))
		case errors.Is(err, service.ErrLeaderCannotLeave):
			response.RenderErr(ctx, response.ErrConflict(service.ErrLeaderCannotLeave))
		default:
			err = fmt.Errorf("HandleLeaveTeam -> h.svc.LeaveTeam -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "left the team"})
}

func (h *TeamHandler) HandleTransferLeadership(ctx *gin.Context) {
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

	var req request.TransferLeadershipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.TransferLeadership(ctx.Request.Context(), uint(teamID), userID, req.ToUserID); err != nil {
		switch {
		case errors.Is(err, service.ErrTeamNotFound):
			response.RenderErr(ctx, response.ErrNotFound("team", "ID", teamID))
		case errors.Is(err, service.ErrNotLeader):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotLeader))
		case errors.Is(err, service.ErrNotOnTeam):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNotOnTeam))
		default:
			err = fmt.Errorf("HandleTransferLeadership -> h.svc.TransferLeadership -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "leadership transferred"})
}
