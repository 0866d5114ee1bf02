package domain

import "time"

type CertificateRole string

const (
	CertificateParticipant CertificateRole = "PARTICIPANT"
	CertificateWinner      CertificateRole = "WINNER"
	CertificateRunnerUp    CertificateRole = "RUNNER_UP"
)

// CertificateRoleForRank maps a final leaderboard rank to the certificate
// designation: rank 1 wins, ranks 2 and 3 are runners-up.
func CertificateRoleForRank(rank int) CertificateRole {
	switch {
	case rank == 1:
		return CertificateWinner
	case rank == 2 || rank == 3:
		return CertificateRunnerUp
	default:
		return CertificateParticipant
	}
}

type Certificate struct {
	ID             uint            `json:"id"`
	VerificationID string          `json:"verification_id"`
	UserID         uint            `json:"user_id"`
	CompetitionID  uint            `json:"competition_id"`
	Role           CertificateRole `json:"role"`
	IssuedAt       time.Time       `json:"issued_at"`
}
