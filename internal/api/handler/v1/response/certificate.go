package response

import (
	"time"

	"github.com/campushub/competition-api/internal/domain"
)

type CertificateResponse struct {
	CertificateID  uint                   `json:"certificate_id"`
	VerificationID string                 `json:"verification_id"`
	CompetitionID  uint                   `json:"competition_id"`
	UserID         uint                   `json:"user_id"`
	Role           domain.CertificateRole `json:"role"`
	IssuedAt       time.Time              `json:"issued_at"`
}

func NewCertificateResponse(c domain.Certificate) CertificateResponse {
	return CertificateResponse{
		CertificateID:  c.ID,
		VerificationID: c.VerificationID,
		CompetitionID:  c.CompetitionID,
		UserID:         c.UserID,
		Role:           c.Role,
		IssuedAt:       c.IssuedAt,
	}
}
