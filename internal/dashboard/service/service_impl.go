package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agroflowhq/agroflow/internal/clock"
	"github.com/agroflowhq/agroflow/internal/config"
	"github.com/agroflowhq/agroflow/internal/dashboard/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	summaryCacheKey = "dashboard:summary"
	summaryCacheTTL = 30 * time.Second

	defaultTrendDays = 7
	maxTrendDays     = 90

	defaultTopProducts = 5
	maxTopProducts     = 50

	activeWindow = 30 * 24 * time.Hour
	atRiskWindow = 90 * 24 * time.Hour

	elevatedRatio = 0.5
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	Clock clock.Clock
	Repo  domain.Repository
	Redis *redis.Client `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	cfg   config.Config
	clock clock.Clock
	repo  domain.Repository
	rdb   *redis.Client
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dashboard.service"),
		cfg:   p.Cfg,
		clock: p.Clock,
		repo:  p.Repo,
		rdb:   p.Redis,
	}
}

// Summary is the poll-heavy endpoint, so the computed view is held in redis
// for a short TTL. Cache failures fall through to the database.
func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, summaryCacheKey).Bytes(); err == nil {
			var cached domain.Summary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	now := s.clock.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	rows, err := s.repo.SalesSince(ctx, s.db, startOfDay)
	if err != nil {
		return domain.Summary{}, err
	}

	summary := domain.Summary{
		TodaySales:  int64(len(rows)),
		GeneratedAt: now,
	}
	for _, row := range rows {
		summary.TodayRevenue += row.TotalAmount
	}

	if summary.OutstandingCredit, err = s.repo.OutstandingCredit(ctx, s.db); err != nil {
		return domain.Summary{}, err
	}
	if summary.LowStockProducts, err = s.repo.LowStockCount(ctx, s.db); err != nil {
		return domain.Summary{}, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := s.rdb.Set(ctx, summaryCacheKey, raw, summaryCacheTTL).Err(); err != nil {
				s.log.Warn("summary cache write failed", zap.Error(err))
			}
		}
	}

	return summary, nil
}

// SalesTrends returns one zero-filled point per day, oldest first, covering
// the last days days including today.
func (s *Service) SalesTrends(ctx context.Context, days int) ([]domain.TrendPoint, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	now := s.clock.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := startOfDay.AddDate(0, 0, -(days - 1))

	rows, err := s.repo.SalesSince(ctx, s.db, since)
	if err != nil {
		return nil, err
	}

	points := make([]domain.TrendPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := since.AddDate(0, 0, i).Format("2006-01-02")
		points[i] = domain.TrendPoint{Date: date}
		index[date] = i
	}

	for _, row := range rows {
		date := row.CreatedAt.UTC().Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			continue
		}
		points[i].Revenue += row.TotalAmount
		points[i].Sales++
	}

	return points, nil
}

func (s *Service) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	if limit <= 0 {
		limit = defaultTopProducts
	}
	if limit > maxTopProducts {
		limit = maxTopProducts
	}
	return s.repo.TopProducts(ctx, s.db, limit)
}

func (s *Service) CreditAnalytics(ctx context.Context) (domain.CreditAnalytics, error) {
	positions, err := s.repo.CreditPositions(ctx, s.db)
	if err != nil {
		return domain.CreditAnalytics{}, err
	}

	warningRatio := s.cfg.Credit.WarningRatio
	if warningRatio <= 0 {
		warningRatio = 0.9
	}

	var analytics domain.CreditAnalytics
	for _, pos := range positions {
		analytics.TotalLimit += pos.CreditLimit
		analytics.TotalOutstanding += pos.CreditBalance
		if pos.CreditLimit <= 0 {
			continue
		}
		switch ratio := float64(pos.CreditBalance) / float64(pos.CreditLimit); {
		case ratio >= warningRatio:
			analytics.Critical++
		case ratio >= elevatedRatio:
			analytics.Elevated++
		default:
			analytics.Comfortable++
		}
	}
	return analytics, nil
}

func (s *Service) PaymentAnalytics(ctx context.Context) ([]domain.MethodBreakdown, error) {
	return s.repo.PaymentsByMethod(ctx, s.db)
}

func (s *Service) CustomerSegments(ctx context.Context) (domain.CustomerSegments, error) {
	dates, err := s.repo.LastPurchaseDates(ctx, s.db)
	if err != nil {
		return domain.CustomerSegments{}, err
	}

	now := s.clock.Now().UTC()
	var segments domain.CustomerSegments
	for _, date := range dates {
		switch {
		case date == nil:
			segments.NeverPurchased++
		case now.Sub(date.UTC()) < activeWindow:
			segments.Active++
		case now.Sub(date.UTC()) < atRiskWindow:
			segments.AtRisk++
		default:
			segments.Dormant++
		}
	}
	return segments, nil
}
