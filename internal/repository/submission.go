package repository

import (
	"context"
	"fmt"

	"github.com/campushub/competition-api/internal/domain"
	"github.com/campushub/competition-api/internal/repository/dao"
)

var ErrSubmissionNotFound = dao.ErrSubmissionNotFound

type SubmissionDAO interface {
	Upsert(ctx context.Context, submission dao.Submission) (dao.Submission, error)
	FindByTeamID(ctx context.Context, teamID uint) (dao.Submission, error)
	FindByID(ctx context.Context, id uint) (dao.Submission, error)
}

type SubmissionRepository struct {
	dao SubmissionDAO
}

func NewSubmissionRepository(dao SubmissionDAO) *SubmissionRepository {
	return &SubmissionRepository{
		dao: dao,
	}
}

func (r *SubmissionRepository) Upsert(ctx context.Context, teamID, actorID uint, fields domain.SubmissionFields) (domain.Submission, error) {
	saved, err := r.dao.Upsert(ctx, dao.Submission{
		TeamID:         teamID,
		Description:    fields.Description,
		RepoURL:        fields.RepoURL,
		DemoURL:        fields.DemoURL,
		ArtifactURL:    fields.ArtifactURL,
		LastModifiedBy: actorID,
	})
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return r.daoToDomain(saved), nil
}

func (r *SubmissionRepository) FindByTeamID(ctx context.Context, teamID uint) (domain.Submission, error) {
	found, err := r.dao.FindByTeamID(ctx, teamID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.FindByTeamID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id uint) (domain.Submission, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SubmissionRepository) daoToDomain(s dao.Submission) domain.Submission {
	return domain.Submission{
		ID:             s.ID,
		TeamID:         s.TeamID,
		Description:    s.Description,
		RepoURL:        s.RepoURL,
		DemoURL:        s.DemoURL,
		ArtifactURL:    s.ArtifactURL,
		Status:         domain.SubmissionStatus(s.Status),
		LastModifiedBy: s.LastModifiedBy,
		SubmittedAt:    s.SubmittedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
