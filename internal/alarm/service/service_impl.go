package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	alarmdomain "github.com/wattpay/wattpay/internal/alarm/domain"
	"github.com/wattpay/wattpay/internal/clock"
	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	"github.com/wattpay/wattpay/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	alarms  repository.Repository[alarmdomain.Alarm]
	history repository.Repository[alarmdomain.HistoryEntry]
}

func New(p Params) alarmdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("alarm.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		alarms:  repository.ProvideStore[alarmdomain.Alarm](p.DB),
		history: repository.ProvideStore[alarmdomain.HistoryEntry](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req alarmdomain.CreateRequest) (*alarmdomain.Response, error) {
	userID, err := userdomain.ParseID(req.UserID)
	if err != nil {
		return nil, err
	}
	if !req.Kind.Valid() {
		return nil, alarmdomain.ErrInvalidKind
	}
	if req.Threshold < 0 {
		return nil, alarmdomain.ErrInvalidThreshold
	}

	now := s.clock.Now().UTC()
	alarm := &alarmdomain.Alarm{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Kind:      req.Kind,
		Threshold: req.Threshold,
		Active:    req.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.alarms.Create(ctx, alarm); err != nil {
		return nil, err
	}

	return toResponse(alarm), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*alarmdomain.Alarm, error) {
	alarmID, err := parseAlarmID(id)
	if err != nil {
		return nil, err
	}

	alarm, err := s.alarms.FindOne(ctx, &alarmdomain.Alarm{ID: alarmID})
	if err != nil {
		return nil, err
	}
	if alarm == nil {
		return nil, alarmdomain.ErrAlarmNotFound
	}
	return alarm, nil
}

func (s *Service) ToggleActive(ctx context.Context, id string) error {
	alarm, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.alarms.Update(ctx, alarm.ID.String(), map[string]any{
		"active":     !alarm.Active,
		"updated_at": s.clock.Now().UTC(),
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	alarm, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.alarms.Delete(ctx, alarm.ID.String())
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]alarmdomain.Alarm, error) {
	id, err := userdomain.ParseID(userID)
	if err != nil {
		return nil, err
	}

	items, err := s.alarms.Find(ctx, &alarmdomain.Alarm{UserID: id},
		repository.WithOrderBy("created_at ASC"),
	)
	if err != nil {
		return nil, err
	}

	alarms := make([]alarmdomain.Alarm, 0, len(items))
	for _, item := range items {
		alarms = append(alarms, *item)
	}
	return alarms, nil
}

func (s *Service) History(ctx context.Context, userID string) ([]alarmdomain.HistoryEntry, error) {
	id, err := userdomain.ParseID(userID)
	if err != nil {
		return nil, err
	}

	items, err := s.history.Find(ctx, &alarmdomain.HistoryEntry{UserID: id},
		repository.WithOrderBy("triggered_at ASC"),
	)
	if err != nil {
		return nil, err
	}

	entries := make([]alarmdomain.HistoryEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, *item)
	}
	return entries, nil
}

func (s *Service) LogTrigger(ctx context.Context, req alarmdomain.LogTriggerRequest) error {
	userID, err := userdomain.ParseID(req.UserID)
	if err != nil {
		return err
	}
	alarmID, err := parseAlarmID(req.AlarmID)
	if err != nil {
		return err
	}

	entry := &alarmdomain.HistoryEntry{
		ID:          s.genID.Generate(),
		UserID:      userID,
		AlarmID:     alarmID,
		Value:       req.Value,
		TriggeredAt: s.clock.Now().UTC(),
	}
	return s.history.Create(ctx, entry)
}

func (s *Service) DeleteHistory(ctx context.Context, historyID string) error {
	id, err := snowflake.ParseString(historyID)
	if err != nil || id == 0 {
		return alarmdomain.ErrInvalidHistoryID
	}

	entry, err := s.history.FindOne(ctx, &alarmdomain.HistoryEntry{ID: id})
	if err != nil {
		return err
	}
	if entry == nil {
		return alarmdomain.ErrHistoryNotFound
	}
	return s.history.Delete(ctx, entry.ID.String())
}

func parseAlarmID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(value)
	if err != nil || id == 0 {
		return 0, alarmdomain.ErrInvalidAlarmID
	}
	return id, nil
}

func toResponse(alarm *alarmdomain.Alarm) *alarmdomain.Response {
	return &alarmdomain.Response{
		ID:        alarm.ID.String(),
		UserID:    alarm.UserID.String(),
		Kind:      alarm.Kind,
		Threshold: alarm.Threshold,
		Active:    alarm.Active,
	}
}
