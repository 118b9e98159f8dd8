// AngelaMos | 2026
// service.go

package progress

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/codeburry/api/internal/config"
	"github.com/codeburry/api/internal/core"
)

type Service struct {
	repo            Repository
	cache           *LeaderboardCache
	lessonReward    int
	leaderboardSize int
	now             func() time.Time
}

func NewService(
	repo Repository,
	cache *LeaderboardCache,
	cfg config.ProgressConfig,
) *Service {
	return &Service{
		repo:            repo,
		cache:           cache,
		lessonReward:    cfg.LessonReward,
		leaderboardSize: cfg.LeaderboardSize,
		now:             time.Now,
	}
}

func (s *Service) Me(ctx context.Context, userID string) (*ProgressResponse, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, p)
}

func (s *Service) CompleteLesson(
	ctx context.Context,
	userID string,
) (_ *ProgressResponse, err error) {
	ctx, span := core.StartSpan(ctx, "progress", "progress.complete_lesson",
		attribute.String("user.id", userID),
	)
	defer func() { core.EndSpan(span, err) }()

	p, err := s.repo.CompleteLesson(ctx, userID, s.lessonReward, truncateDay(s.now()))
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return s.respond(ctx, p)
}

func (s *Service) Water(
	ctx context.Context,
	userID string,
	amount int,
) (_ *ProgressResponse, err error) {
	ctx, span := core.StartSpan(ctx, "progress", "progress.water",
		attribute.String("user.id", userID),
		attribute.Int("amount", amount),
	)
	defer func() { core.EndSpan(span, err) }()

	if amount <= 0 {
		return nil, core.ValidationError("amount must be at least 1")
	}

	p, err := s.repo.Water(ctx, userID, amount)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return s.respond(ctx, p)
}

func (s *Service) PlantTree(
	ctx context.Context,
	userID string,
) (_ *ProgressResponse, err error) {
	ctx, span := core.StartSpan(ctx, "progress", "progress.plant_tree",
		attribute.String("user.id", userID),
	)
	defer func() { core.EndSpan(span, err) }()

	p, err := s.repo.PlantTree(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return s.respond(ctx, p)
}

func (s *Service) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if entries, ok := s.cache.Get(ctx); ok {
		return entries, nil
	}

	entries, err := s.repo.Top(ctx, s.leaderboardSize)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, entries)
	return entries, nil
}

func (s *Service) respond(ctx context.Context, p *Progress) (*ProgressResponse, error) {
	rank, err := s.repo.Rank(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	resp := ToProgressResponse(p, rank)
	return &resp, nil
}
