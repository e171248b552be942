package interview

import (
	"context"

	domain "talentdesk/internal/domain/interview"
)

// Store persists Interview state. GetByID excludes cancelled interviews so a
// cancelled interview disappears from normal lookup while its row is
// retained for audit; GetByIDAny sees every row.
type Store interface {
	Save(ctx context.Context, iv domain.Interview) error
	GetByID(ctx context.Context, id string) (domain.Interview, error)
	GetByIDAny(ctx context.Context, id string) (domain.Interview, error)
	ExistsForAssignment(ctx context.Context, applicationID, interviewerID, skeletonID string) (bool, error)
	SaveResponses(ctx context.Context, interviewID string, responses []domain.Response) error
	GetResponses(ctx context.Context, interviewID string) ([]domain.Response, error)
	GetSkeleton(ctx context.Context, id string) (domain.Skeleton, error)
	SaveSkeleton(ctx context.Context, sk domain.Skeleton) error
}
