package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushub/competition-api/internal/api/handler/v1/response"
	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/service"
)

type CertificateService interface {
	IssueOrGet(ctx context.Context, userID, competitionID uint) (domain.Certificate, error)
	Verify(ctx context.Context, verificationID string) (domain.Certificate, error)
}

type CertificateHandler struct {
	svc CertificateService
}

func NewCertificateHandler(svc CertificateService) *CertificateHandler {
	return &CertificateHandler{
		svc: svc,
	}
}

// HandleIssueCertificate issues the caller's certificate for a published
// competition, or returns the existing one. Repeat calls are idempotent.
func (h *CertificateHandler) HandleIssueCertificate(ctx *gin.Context) {
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

	certificate, err := h.svc.IssueOrGet(ctx.Request.Context(), userID, uint(competitionID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompetitionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("competition", "ID", competitionID))
		case errors.Is(err, service.ErrResultsNotPublished):
			response.RenderErr(ctx, response.ErrConflict(service.ErrResultsNotPublished))
		case errors.Is(err, service.ErrNotEligible):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotEligible))
		default:
			err = fmt.Errorf("HandleIssueCertificate -> h.svc.IssueOrGet -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.NewCertificateResponse(certificate))
}

// HandleVerify is public so third parties can check a certificate by its
// verification id.
func (h *CertificateHandler) HandleVerify(ctx *gin.Context) {
	verificationID := ctx.Param("verificationID")
	if verificationID == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("missing verification ID")))
		return
	}

	certificate, err := h.svc.Verify(ctx.Request.Context(), verificationID)
	if err != nil {
		if errors.Is(err, service.ErrCertificateNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("certificate", "verificationID", verificationID))
			return
		}

		err = fmt.Errorf("HandleVerify -> h.svc.Verify -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewCertificateResponse(certificate))
}
