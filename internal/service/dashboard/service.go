package dashboard

import (
	"context"
	"time"

	"github.com/jwalitptl/hospital-admin/internal/model"
	"github.com/jwalitptl/hospital-admin/internal/repository"
	"github.com/jwalitptl/hospital-admin/pkg/logger"
)

type Service struct {
	repo   repository.StatsRepository
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo repository.StatsRepository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, logger: log, now: time.Now}
}

// Stats returns the dashboard counts for today. On failure the counts are
// all zero and the error is returned alongside them.
func (s *Service) Stats(ctx context.Context) (*model.DashboardStats, error) {
	stats, err := s.repo.Dashboard(ctx, s.now())
	if err != nil {
		s.logger.Warn(err, "failed to fetch dashboard stats")
		return &model.DashboardStats{}, err
	}
	return stats, nil
}
