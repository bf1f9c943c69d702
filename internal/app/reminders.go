package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmhodges/clock"

	"github.com/motivationapp/motivation-service/internal/domain"
	"github.com/motivationapp/motivation-service/internal/platform/logging"
	"github.com/motivationapp/motivation-service/internal/ports"
)

// DefaultRegisterConcurrency bounds parallel notification registrations.
const DefaultRegisterConcurrency = 4

// QuoteFeed supplies the quotes reminders are built from.
type QuoteFeed interface {
	Fetch(ctx context.Context, deviceID string, feed ports.Feed) (*FeedResult, error)
}

// ScheduleResult reports a completed scheduling run.
type ScheduleResult struct {
	Status      domain.ScheduleStatus      `json:"status"`
	Preferences domain.ReminderPreferences `json:"preferences"`
	Slots       []domain.NotificationSlot  `json:"slots"`
	Fallback    bool                       `json:"fallback"`
}

// ReminderConfig configures a ReminderService.
type ReminderConfig struct {
	Feed    QuoteFeed
	Stores  ports.PreferenceStores
	Centers ports.NotificationCenters
	Flags   ports.FeatureFlags

	Bounds              domain.ReminderBounds
	Defaults            domain.ReminderPreferences
	RegisterConcurrency int

	Clock   clock.Clock
	Metrics Metrics
	Logger  *slog.Logger
}

// ReminderService drives the scheduling lifecycle of each device. At most
// one lifecycle operation runs per device at a time.
type ReminderService struct {
	feed    QuoteFeed
	stores  ports.PreferenceStores
	centers ports.NotificationCenters
	flags   ports.FeatureFlags

	bounds      domain.ReminderBounds
	defaults    domain.ReminderPreferences
	concurrency int

	locks    *KeyedMutex
	executor *Executor
	clock    clock.Clock
	metrics  Metrics
	logger   *slog.Logger
}

// NewReminderService panics when Feed, Stores or Centers is missing.
func NewReminderService(cfg ReminderConfig) *ReminderService {
	if cfg.Feed == nil || cfg.Stores == nil || cfg.Centers == nil {
		panic("app: ReminderService requires a quote feed, preference stores and notification centers")
	}

	if cfg.Bounds == (domain.ReminderBounds{}) {
		cfg.Bounds = domain.DefaultReminderBounds()
	}

	if cfg.Defaults == (domain.ReminderPreferences{}) {
		cfg.Defaults = domain.DefaultReminderPreferences()
	}

	if cfg.RegisterConcurrency <= 0 {
		cfg.RegisterConcurrency = DefaultRegisterConcurrency
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	logger := cfg.Logger.With(slog.String("component", "app.ReminderService"))

	return &ReminderService{
		feed:        cfg.Feed,
		stores:      cfg.Stores,
		centers:     cfg.Centers,
		flags:       cfg.Flags,
		bounds:      cfg.Bounds,
		defaults:    cfg.Defaults,
		concurrency: cfg.RegisterConcurrency,
		locks:       NewKeyedMutex(),
		executor:    NewExecutor(logger, cfg.Clock),
		clock:       cfg.Clock,
		metrics:     orNoop(cfg.Metrics),
		logger:      logger,
	}
}

// Preferences returns the saved preferences, or the defaults.
func (s *ReminderService) Preferences(ctx context.Context, deviceID string) (domain.ReminderPreferences, error) {
	prefs, err := s.stores.ForDevice(deviceID).LoadReminderPreferences(ctx)
	if err != nil {
		if domain.IsNotFound(err) {
			return s.defaults, nil
		}

		return domain.ReminderPreferences{}, fmt.Errorf("loading reminder preferences: %w", err)
	}

	return prefs, nil
}

// SavePreferences validates and stores prefs without rescheduling.
func (s *ReminderService) SavePreferences(ctx context.Context, deviceID string, prefs domain.ReminderPreferences) error {
	if err := prefs.Validate(s.bounds); err != nil {
		return err
	}

	if err := s.stores.ForDevice(deviceID).SaveReminderPreferences(ctx, prefs); err != nil {
		return fmt.Errorf("saving reminder preferences: %w", err)
	}

	return nil
}

// Status returns the device's lifecycle position.
func (s *ReminderService) Status(ctx context.Context, deviceID string) (domain.ScheduleStatus, error) {
	return s.loadStatus(ctx, s.stores.ForDevice(deviceID))
}

// Pending lists the device's registered reminders ordered by firing time.
func (s *ReminderService) Pending(ctx context.Context, deviceID string) ([]domain.Notification, error) {
	pending, err := s.centers.ForDevice(deviceID).Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pending reminders: %w", err)
	}

	return pending, nil
}

// RecordPermission stores the device's answer to the permission prompt.
func (s *ReminderService) RecordPermission(ctx context.Context, deviceID string, status domain.PermissionStatus) error {
	if !status.Valid() {
		return domain.NewValidationErrorWithValue("status", "must be granted, denied or not_determined", string(status))
	}

	recorder, ok := s.centers.ForDevice(deviceID).(ports.PermissionRecorder)
	if !ok {
		return domain.NewForbiddenError("record permission", "notification center does not accept permission answers")
	}

	if err := recorder.SetPermission(ctx, status); err != nil {
		return fmt.Errorf("recording permission: %w", err)
	}

	s.metrics.PermissionAnswered(string(status))

	return nil
}

// scheduleRun carries one run's state between executor steps.
type scheduleRun struct {
	deviceID string
	prefs    domain.ReminderPreferences
	store    ports.PreferenceStore
	center   ports.NotificationCenter
	status   domain.ScheduleStatus
	fallback bool
}

// Schedule enables reminders with prefs, or with the saved preferences
// when prefs is nil.
//
// It asks for permission, fetches quotes from the app feed, clears every
// pending reminder and only then registers the new slots. Once the clear has
// started the run ignores caller cancellation, so a run never stops halfway
// through registration.
func (s *ReminderService) Schedule(
	ctx context.Context,
	deviceID string,
	prefs *domain.ReminderPreferences,
) (*ScheduleResult, error) {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	logger := logging.FromContextOr(ctx, s.logger)
	ctx = logging.WithContext(ctx, logger)

	run := &scheduleRun{
		deviceID: deviceID,
		store:    s.stores.ForDevice(deviceID),
		center:   s.centers.ForDevice(deviceID),
	}

	saved, status, err := Parallel2(ctx,
		func(ctx context.Context) (domain.ReminderPreferences, error) {
			if prefs != nil {
				return *prefs, nil
			}

			return s.Preferences(ctx, deviceID)
		},
		func(ctx context.Context) (domain.ScheduleStatus, error) {
			return s.loadStatus(ctx, run.store)
		},
	)
	if err != nil {
		return nil, err
	}

	run.prefs = saved
	run.status = status

	slots, err := Execute(ctx, s.executor, Operation[*scheduleRun, []domain.NotificationSlot, []domain.NotificationSlot]{
		Name:     "schedule_reminders",
		Validate: s.validateSchedule,
		Perform:  s.performSchedule,
		Verify:   s.verifySchedule,
		Archive:  s.archiveSchedule,
	}, run)
	if err != nil {
		s.recordFailure(ctx, run, err)
		return nil, err
	}

	s.metrics.ScheduleRun(OutcomeScheduled, len(slots))

	return &ScheduleResult{
		Status:      run.status,
		Preferences: run.prefs,
		Slots:       slots,
		Fallback:    run.fallback,
	}, nil
}

// validateSchedule checks the preferences, then resolves permission.
func (s *ReminderService) validateSchedule(ctx context.Context, run *scheduleRun) error {
	if err := run.prefs.Validate(s.bounds); err != nil {
		return err
	}

	// A run that died mid-registration leaves Scheduling behind; the lock
	// guarantees no other run owns it now.
	if run.status.State == domain.ScheduleScheduling {
		if err := s.transition(ctx, run, domain.SchedulePermissionGranted); err != nil {
			return err
		}
	}

	if run.status.State != domain.SchedulePermissionPending {
		if err := s.transition(ctx, run, domain.SchedulePermissionPending); err != nil {
			return err
		}
	}

	permission, err := run.center.RequestPermission(ctx)
	if err != nil {
		return fmt.Errorf("requesting notification permission: %w", err)
	}

	switch permission {
	case domain.PermissionGranted:
		return s.transition(ctx, run, domain.SchedulePermissionGranted)
	case domain.PermissionDenied:
		if err := s.transition(ctx, run, domain.SchedulePermissionDenied); err != nil {
			return err
		}

		return domain.NewPermissionDeniedError(run.deviceID)
	default:
		return domain.NewForbiddenError("schedule reminders", "notification permission has not been answered yet")
	}
}

// performSchedule fetches quotes, clears old reminders and registers new ones.
func (s *ReminderService) performSchedule(ctx context.Context, run *scheduleRun) ([]domain.NotificationSlot, error) {
	result, err := s.feed.Fetch(ctx, run.deviceID, ports.FeedApp)
	if err != nil {
		return nil, fmt.Errorf("fetching reminder quotes: %w", err)
	}

	run.fallback = result.Fallback

	quotes := result.Quotes
	if len(quotes) == 0 {
		quotes = domain.FallbackQuotes()
		run.fallback = true
	}

	ctx = context.WithoutCancel(ctx)

	if err := s.transition(ctx, run, domain.ScheduleScheduling); err != nil {
		return nil, err
	}

	if err := run.center.RemoveAllPending(ctx); err != nil {
		return nil, fmt.Errorf("clearing pending reminders: %w", err)
	}

	slots := domain.ScheduleSlots(run.prefs.SlotTimes(), quotes)

	notifications := make([]domain.Notification, len(slots))
	for i, slot := range slots {
		notifications[i] = slot.Notification()
	}

	if err := FanOut(ctx, s.registerConcurrency(ctx, run.deviceID), notifications, run.center.Add); err != nil {
		return nil, fmt.Errorf("registering reminders: %w", err)
	}

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "reminders registered",
		slog.Int("slots", len(slots)), slog.Bool("fallback", run.fallback))

	return slots, nil
}

// registerConcurrency lets the register_concurrency flag override the
// configured fan-out width.
func (s *ReminderService) registerConcurrency(ctx context.Context, deviceID string) int {
	if s.flags == nil {
		return s.concurrency
	}

	if n := s.flags.GetInt(ports.WithFlagDevice(ctx, deviceID), ports.FlagRegisterConcurrency, s.concurrency); n > 0 {
		return n
	}

	return s.concurrency
}

// verifySchedule confirms every slot is pending.
func (s *ReminderService) verifySchedule(
	ctx context.Context,
	run *scheduleRun,
	slots []domain.NotificationSlot,
) ([]domain.NotificationSlot, error) {
	if s.flags != nil && !s.flags.IsEnabled(ports.WithFlagDevice(ctx, run.deviceID), ports.FlagVerifyPending, true) {
		return slots, nil
	}

	pending, err := run.center.Pending(context.WithoutCancel(ctx))
	if err != nil {
		return nil, fmt.Errorf("listing pending reminders: %w", err)
	}

	registered := make(map[string]struct{}, len(pending))
	for _, n := range pending {
		registered[n.Identifier] = struct{}{}
	}

	if len(pending) != len(slots) {
		return nil, domain.NewConflictErrorWithDetails("schedule", "pending reminders do not match slots",
			fmt.Sprintf("%d pending, %d slots", len(pending), len(slots)))
	}

	for _, slot := range slots {
		if _, ok := registered[slot.Identifier]; !ok {
			return nil, domain.NewConflictErrorWithDetails("schedule", "slot not registered", slot.Identifier)
		}
	}

	return slots, nil
}

// archiveSchedule persists the preferences and the Scheduled status.
func (s *ReminderService) archiveSchedule(ctx context.Context, run *scheduleRun, slots []domain.NotificationSlot) error {
	ctx = context.WithoutCancel(ctx)

	if err := run.store.SaveReminderPreferences(ctx, run.prefs); err != nil {
		return fmt.Errorf("saving reminder preferences: %w", err)
	}

	run.status.SlotCount = len(slots)

	return s.transition(ctx, run, domain.ScheduleScheduled)
}

// recordFailure leaves a status that lets the user retry.
func (s *ReminderService) recordFailure(ctx context.Context, run *scheduleRun, err error) {
	if domain.IsPermissionDenied(err) {
		s.metrics.ScheduleRun(OutcomeDenied, 0)
		return
	}

	s.metrics.ScheduleRun(OutcomeFailed, 0)

	if run.status.State != domain.ScheduleScheduling {
		return
	}

	ctx = context.WithoutCancel(ctx)

	message := err.Error()
	if terr := s.transition(ctx, run, domain.SchedulePermissionGranted); terr != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "failed to roll back schedule status", slog.Any("error", terr))
		return
	}

	run.status.Message = message
	if serr := run.store.SaveScheduleStatus(ctx, run.status); serr != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "failed to save schedule failure", slog.Any("error", serr))
	}
}

// Disable clears every pending reminder and returns the device to Idle.
func (s *ReminderService) Disable(ctx context.Context, deviceID string) (domain.ScheduleStatus, error) {
	unlock := s.locks.Lock(deviceID)
	defer unlock()

	ctx = context.WithoutCancel(ctx)
	store := s.stores.ForDevice(deviceID)

	status, err := s.loadStatus(ctx, store)
	if err != nil {
		return domain.ScheduleStatus{}, err
	}

	if err := s.centers.ForDevice(deviceID).RemoveAllPending(ctx); err != nil {
		return domain.ScheduleStatus{}, fmt.Errorf("clearing pending reminders: %w", err)
	}

	now := s.clock.Now()

	next, err := status.Transition(domain.ScheduleIdle, now)
	if err != nil {
		// Idle itself and PermissionPending have no edge to Idle; disabling
		// resets them regardless.
		next = domain.NewScheduleStatus(now)
	}

	if err := store.SaveScheduleStatus(ctx, next); err != nil {
		return domain.ScheduleStatus{}, fmt.Errorf("saving schedule status: %w", err)
	}

	s.metrics.ScheduleRun(OutcomeDisabled, 0)
	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "reminders disabled",
		slog.String("previous_state", string(status.State)))

	return next, nil
}

func (s *ReminderService) loadStatus(ctx context.Context, store ports.PreferenceStore) (domain.ScheduleStatus, error) {
	status, err := store.LoadScheduleStatus(ctx)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.NewScheduleStatus(s.clock.Now()), nil
		}

		return domain.ScheduleStatus{}, fmt.Errorf("loading schedule status: %w", err)
	}

	return status, nil
}

// transition moves the run to next and persists the new status.
func (s *ReminderService) transition(ctx context.Context, run *scheduleRun, next domain.ScheduleState) error {
	moved, err := run.status.Transition(next, s.clock.Now())
	if err != nil {
		return err
	}

	if err := run.store.SaveScheduleStatus(ctx, moved); err != nil {
		return fmt.Errorf("saving schedule status: %w", err)
	}

	run.status = moved

	return nil
}
