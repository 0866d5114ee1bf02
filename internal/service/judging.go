package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/repository"
)

var (
	ErrCompetitionNotFound = repository.ErrCompetitionNotFound
	ErrCompetitionNotOpen  = repository.ErrCompetitionNotOpen
	ErrNotJudging          = repository.ErrNotJudging
	ErrAlreadyLocked       = repository.ErrAlreadyLocked
	ErrNotLocked           = repository.ErrNotLocked
	ErrLockedUnpublished   = errors.New("leaderboard is locked but not yet published")
	ErrNoCriteria          = errors.New("criteria scores must not be empty")
)

type CompetitionRepository interface {
	Create(ctx context.Context, competition domain.Competition) (domain.Competition, error)
	FindByID(ctx context.Context, id uint) (domain.Competition, error)
	StartJudging(ctx context.Context, id uint) error
	LockAndRank(ctx context.Context, competitionID uint) ([]domain.LeaderboardEntry, error)
	Publish(ctx context.Context, id uint) error
	FindLeaderboard(ctx context.Context, competitionID uint) ([]domain.LeaderboardEntry, error)
}

type ScoringRepository interface {
	Upsert(ctx context.Context, competitionID uint, entry domain.ScoreEntry) (domain.ScoreEntry, error)
	FindBySubmissionID(ctx context.Context, submissionID uint) ([]domain.ScoreEntry, error)
}

// Leaderboard is a competition's ranking snapshot plus its visibility state.
type Leaderboard struct {
	Locked    bool
	Published bool
	Entries   []domain.LeaderboardEntry
}

type JudgingService struct {
	compRepo    CompetitionRepository
	scoringRepo ScoringRepository
	subRepo     SubmissionRepository
	teamRepo    TeamRepository
}

func NewJudgingService(compRepo CompetitionRepository, scoringRepo ScoringRepository, subRepo SubmissionRepository, teamRepo TeamRepository) *JudgingService {
	return &JudgingService{
		compRepo:    compRepo,
		scoringRepo: scoringRepo,
		subRepo:     subRepo,
		teamRepo:    teamRepo,
	}
}

// RecordScore upserts a judge's score for a submission while the competition
// is in JUDGING. The weighted total is derived from the criterion breakdown.
// The JUDGING check rides along in the write transaction, so a lock that
// lands mid-flight rejects the score instead of leaving a stray entry behind
// the frozen snapshot.
func (s *JudgingService) RecordScore(ctx context.Context, submissionID, judgeID uint, criteria []domain.CriterionScore) (domain.ScoreEntry, error) {
	if len(criteria) == 0 {
		return domain.ScoreEntry{}, ErrNoCriteria
	}

	submission, err := s.subRepo.FindByID(ctx, submissionID)
	if err != nil {
		return domain.ScoreEntry{}, fmt.Errorf("s.subRepo.FindByID -> %w", err)
	}

	team, err := s.teamRepo.FindByID(ctx, submission.TeamID)
	if err != nil {
		return domain.ScoreEntry{}, fmt.Errorf("s.teamRepo.FindByID -> %w", err)
	}

	entry, err := s.scoringRepo.Upsert(ctx, team.CompetitionID, domain.ScoreEntry{
		SubmissionID: submissionID,
		JudgeID:      judgeID,
		Total:        domain.WeightedTotal(criteria),
		Breakdown:    criteria,
	})
	if err != nil {
		return domain.ScoreEntry{}, fmt.Errorf("s.scoringRepo.Upsert -> %w", err)
	}

	return entry, nil
}

// LockAndRank freezes scoring and computes the ranking snapshot exactly once.
// A caller that loses the transition race gets ErrAlreadyLocked together with
// the winner's snapshot.
func (s *JudgingService) LockAndRank(ctx context.Context, competitionID uint) ([]domain.LeaderboardEntry, error) {
	entries, err := s.compRepo.LockAndRank(ctx, competitionID)
	if err != nil {
		if errors.Is(err, ErrAlreadyLocked) {
			existing, findErr := s.compRepo.FindLeaderboard(ctx, competitionID)
			if findErr != nil {
				return nil, fmt.Errorf("s.compRepo.FindLeaderboard -> %w", findErr)
			}
			return existing, ErrAlreadyLocked
		}
		return nil, err
	}

	return entries, nil
}

func (s *JudgingService) StartJudging(ctx context.Context, competitionID uint) error {
	return s.compRepo.StartJudging(ctx, competitionID)
}

func (s *JudgingService) Publish(ctx context.Context, competitionID uint) error {
	return s.compRepo.Publish(ctx, competitionID)
}

// GetLeaderboard returns the ranking snapshot. Before PUBLISHED only
// organizers may read it; other callers get ErrNotLocked or
// ErrLockedUnpublished depending on how far the competition has progressed.
func (s *JudgingService) GetLeaderboard(ctx context.Context, competitionID uint, viewerIsOrganizer bool) (Leaderboard, error) {
	competition, err := s.compRepo.FindByID(ctx, competitionID)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("s.compRepo.FindByID -> %w", err)
	}

	board := Leaderboard{
		Locked:    competition.State == domain.CompetitionLocked || competition.State == domain.CompetitionPublished,
		Published: competition.State == domain.CompetitionPublished,
	}

	if !board.Published && !viewerIsOrganizer {
		if board.Locked {
			return Leaderboard{}, ErrLockedUnpublished
		}
		return Leaderboard{}, ErrNotLocked
	}
	if !board.Locked {
		return Leaderboard{}, ErrNotLocked
	}

	entries, err := s.compRepo.FindLeaderboard(ctx, competitionID)
	if err != nil {
		return Leaderboard{}, fmt.Errorf("s.compRepo.FindLeaderboard -> %w", err)
	}
	board.Entries = entries

	return board, nil
}
