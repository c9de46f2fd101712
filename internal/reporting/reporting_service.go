package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mujabaralno/qr-absence/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	reportKeyPrefix = "reports:"
	reportCacheTTL  = 10 * time.Minute
)

func organizationKeyPattern(organizationID string) string {
	return reportKeyPrefix + organizationID + ":*"
}

//go:generate mockgen -source=reporting_service.go -destination=mock/reporting_service_mock.go -package=mock

type Service interface {
	SessionSummary(ctx context.Context, organizationID, sessionID uuid.UUID) (*SessionSummary, error)
	OrganizationSummary(ctx context.Context, organizationID uuid.UUID) (*OrganizationSummary, error)
	MonthlySummary(ctx context.Context, organizationID uuid.UUID, year int) ([]MonthlyBucket, error)
	WindowSummary(ctx context.Context, organizationID uuid.UUID, from, to time.Time) (*WindowSummary, error)
	InvalidateOrganization(ctx context.Context, organizationID string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client) Service {
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: zap.L().Named("reporting.service"),
	}
}

// cached runs the loader behind a redis read-through with singleflight
// collapsing concurrent misses for the same key.
func cached[T any](ctx context.Context, s *service, key string, load func() (T, error)) (T, error) {
	var zero T

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var value T
			if json.Unmarshal([]byte(raw), &value) == nil {
				return value, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		value, err := load()
		if err != nil {
			return zero, err
		}

		if s.rdb != nil {
			if raw, err := json.Marshal(value); err == nil {
				s.rdb.Set(ctx, key, raw, reportCacheTTL)
			}
		}

		return value, nil
	})
	if err != nil {
		return zero, err
	}

	return v.(T), nil
}

func (s *service) SessionSummary(ctx context.Context, organizationID, sessionID uuid.UUID) (*SessionSummary, error) {
	key := fmt.Sprintf("%s%s:session:%s", reportKeyPrefix, organizationID, sessionID)

	summary, err := cached(ctx, s, key, func() (*SessionSummary, error) {
		return s.repo.SessionSummary(ctx, organizationID, sessionID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFoundOrUnauthorized
		}
		s.logger.Error("session summary failed", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to build session summary", 500)
	}

	return summary, nil
}

func (s *service) OrganizationSummary(ctx context.Context, organizationID uuid.UUID) (*OrganizationSummary, error) {
	key := fmt.Sprintf("%s%s:organization", reportKeyPrefix, organizationID)

	summary, err := cached(ctx, s, key, func() (*OrganizationSummary, error) {
		return s.repo.OrganizationSummary(ctx, organizationID)
	})
	if err != nil {
		s.logger.Error("organization summary failed", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to build organization summary", 500)
	}

	summary.OrganizationID = organizationID
	return summary, nil
}

func (s *service) MonthlySummary(ctx context.Context, organizationID uuid.UUID, year int) ([]MonthlyBucket, error) {
	key := fmt.Sprintf("%s%s:monthly:%d", reportKeyPrefix, organizationID, year)

	buckets, err := cached(ctx, s, key, func() ([]MonthlyBucket, error) {
		return s.repo.MonthlySummary(ctx, organizationID, year)
	})
	if err != nil {
		s.logger.Error("monthly summary failed", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to build monthly summary", 500)
	}

	return buckets, nil
}

// WindowSummary is uncached; ad-hoc windows rarely repeat.
func (s *service) WindowSummary(ctx context.Context, organizationID uuid.UUID, from, to time.Time) (*WindowSummary, error) {
	if !to.After(from) {
		return nil, apperror.InvalidField("to")
	}

	summary, err := s.repo.WindowSummary(ctx, organizationID, from, to)
	if err != nil {
		s.logger.Error("window summary failed", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to build window summary", 500)
	}

	return summary, nil
}

// InvalidateOrganization drops every cached report for the tenant. Called
// after attendance writes; failures are the caller's to log and ignore.
func (s *service) InvalidateOrganization(ctx context.Context, organizationID string) error {
	if s.rdb == nil {
		return nil
	}

	iter := s.rdb.Scan(ctx, 0, organizationKeyPattern(organizationID), 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
