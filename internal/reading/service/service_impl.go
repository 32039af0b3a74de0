package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	alarmdomain "github.com/wattpay/wattpay/internal/alarm/domain"
	"github.com/wattpay/wattpay/internal/clock"
	"github.com/wattpay/wattpay/internal/config"
	"github.com/wattpay/wattpay/internal/observability/metrics"
	paymentdomain "github.com/wattpay/wattpay/internal/payment/domain"
	readingdomain "github.com/wattpay/wattpay/internal/reading/domain"
	"github.com/wattpay/wattpay/internal/reading/repository"
	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Config   config.Config
	Repo     repository.Repository
	UserSvc  userdomain.Service
	AlarmSvc alarmdomain.Service
	Payments paymentdomain.Service
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	cfg      config.PaymentConfig
	repo     repository.Repository
	usersvc  userdomain.Service
	alarmsvc alarmdomain.Service
	payments paymentdomain.Service
	metrics  *metrics.Metrics
}

func New(p Params) readingdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("reading.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		cfg:      p.Config.Payment,
		repo:     p.Repo,
		usersvc:  p.UserSvc,
		alarmsvc: p.AlarmSvc,
		payments: p.Payments,
		metrics:  p.Metrics,
	}
}

// Ingest runs the full pipeline for one reading: validate, resolve the user,
// settle the per-reading payment, freeze the cost at the current tariff,
// persist, then evaluate the user's alarms. A payment failure aborts before
// anything is written; alarm bookkeeping failures after the reading is stored
// are logged and do not take the reading back.
func (s *Service) Ingest(ctx context.Context, req readingdomain.CreateReadingRequest) (*readingdomain.CreateReadingResponse, error) {
	meterID := strings.TrimSpace(req.MeterID)
	if meterID == "" {
		return nil, readingdomain.ErrInvalidMeterID
	}
	if req.Reading < 0 || math.IsNaN(req.Reading) || math.IsInf(req.Reading, 0) {
		return nil, readingdomain.ErrInvalidReading
	}

	user, err := s.usersvc.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	paymentID, err := s.settlePayment(ctx, user, req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	reading := &readingdomain.MeterReading{
		ID:         s.genID.Generate(),
		UserID:     user.ID,
		MeterID:    meterID,
		KWConsumed: req.Reading,
		Cost:       readingdomain.Cost(req.Reading, user.Tariff),
		Currency:   user.Currency,
		PaymentID:  paymentID,
		Timestamp:  now,
		CreatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, reading); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ReadingsIngested.WithLabelValues(meterID).Inc()
	}
	s.log.Info("reading ingested",
		zap.String("reading_id", reading.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.Float64("kw_consumed", reading.KWConsumed),
		zap.Float64("cost", reading.Cost),
	)

	s.evaluateAlarms(ctx, user.ID, reading)

	return &readingdomain.CreateReadingResponse{ID: reading.ID.String()}, nil
}

// settlePayment enforces the payment policy. An explicit payment reference on
// the request is taken at face value; otherwise, when payment is required, the
// policy amount is charged before the reading exists.
func (s *Service) settlePayment(ctx context.Context, user *userdomain.User, req readingdomain.CreateReadingRequest) (*snowflake.ID, error) {
	if raw := strings.TrimSpace(req.PaymentID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return nil, readingdomain.ErrInvalidPaymentID
		}
		return &id, nil
	}

	if !s.cfg.Required {
		return nil, nil
	}

	payment, err := s.payments.Pay(ctx, user.ID, s.cfg.Satoshis)
	if err != nil {
		if s.metrics != nil {
			s.metrics.PaymentFailures.Inc()
		}
		s.log.Warn("reading payment failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	return &payment.ID, nil
}

// evaluateAlarms runs every alarm of the user against the just-persisted
// reading. The reading is already committed, so failures here are logged and
// swallowed rather than surfaced to the caller.
func (s *Service) evaluateAlarms(ctx context.Context, userID snowflake.ID, reading *readingdomain.MeterReading) {
	alarms, err := s.alarmsvc.ListByUser(ctx, userID.String())
	if err != nil {
		s.log.Warn("alarm evaluation skipped",
			zap.String("reading_id", reading.ID.String()),
			zap.Error(err),
		)
		return
	}

	for _, alarm := range alarms {
		if !alarm.Triggered(reading.Cost, reading.KWConsumed) {
			continue
		}

		value := reading.KWConsumed
		if alarm.Kind == alarmdomain.KindMoney {
			value = reading.Cost
		}

		err := s.alarmsvc.LogTrigger(ctx, alarmdomain.LogTriggerRequest{
			UserID:  userID.String(),
			AlarmID: alarm.ID.String(),
			Value:   value,
		})
		if err != nil {
			s.log.Warn("alarm trigger not recorded",
				zap.String("alarm_id", alarm.ID.String()),
				zap.Error(err),
			)
			continue
		}

		if s.metrics != nil {
			s.metrics.AlarmsFired.WithLabelValues(string(alarm.Kind)).Inc()
		}
		s.log.Info("alarm fired",
			zap.String("alarm_id", alarm.ID.String()),
			zap.String("kind", string(alarm.Kind)),
			zap.Float64("value", value),
		)
	}
}

// GenerateChart aggregates the user's readings into calendar buckets. Bucket
// prices are recomputed from the tariff current at query time, so a tariff
// change is visible on historic buckets.
func (s *Service) GenerateChart(ctx context.Context, req readingdomain.GenerateChartRequest) (readingdomain.GenerateChartResponse, error) {
	granularity, err := readingdomain.ParseGranularity(req.Granularity)
	if err != nil {
		return readingdomain.GenerateChartResponse{}, err
	}

	start, end, err := s.resolveRange(granularity, req.Start, req.End)
	if err != nil {
		return readingdomain.GenerateChartResponse{}, err
	}

	user, err := s.usersvc.GetByID(ctx, req.UserID)
	if err != nil {
		return readingdomain.GenerateChartResponse{}, err
	}

	readings, err := s.repo.FindByUserInRange(ctx, s.db, user.ID, start, end)
	if err != nil {
		return readingdomain.GenerateChartResponse{}, err
	}

	totals := make(map[readingdomain.BucketKey]float64)
	for _, reading := range readings {
		totals[granularity.Key(reading.Timestamp)] += reading.KWConsumed
	}

	chart := make([]readingdomain.ChartBucket, 0, len(totals))
	for key, kw := range totals {
		bucketStart, err := granularity.Start(key)
		if err != nil {
			return readingdomain.GenerateChartResponse{}, err
		}
		chart = append(chart, readingdomain.ChartBucket{
			Timestamp: bucketStart,
			KW:        kw,
			Price:     readingdomain.Cost(kw, user.Tariff),
		})
	}
	sort.Slice(chart, func(i, j int) bool {
		return chart[i].Timestamp.Before(chart[j].Timestamp)
	})

	if s.metrics != nil {
		s.metrics.ChartQueries.WithLabelValues(string(granularity)).Inc()
	}
	return readingdomain.GenerateChartResponse{Chart: chart}, nil
}

// resolveRange validates the optional RFC 3339 bounds and fills in the
// granularity's default window ending now.
func (s *Service) resolveRange(g readingdomain.Granularity, rawStart, rawEnd string) (time.Time, time.Time, error) {
	var start, end time.Time

	if raw := strings.TrimSpace(rawEnd); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, readingdomain.ErrInvalidRange
		}
		end = parsed.UTC()
	} else {
		end = s.clock.Now().UTC()
	}

	if raw := strings.TrimSpace(rawStart); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, readingdomain.ErrInvalidRange
		}
		start = parsed.UTC()
	} else {
		start = end.Add(-g.DefaultPeriod())
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, readingdomain.ErrInvalidRange
	}
	return start, end, nil
}
