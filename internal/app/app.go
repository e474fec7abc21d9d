// Package app assembles the zenith engines over a store backend, a
// notifier, and the optional Firebase mirror.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/theirongolddev/zenith/internal/budget"
	"github.com/theirongolddev/zenith/internal/config"
	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/logger"
	"github.com/theirongolddev/zenith/internal/mirror"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/notify"
	"github.com/theirongolddev/zenith/internal/nutrition"
	"github.com/theirongolddev/zenith/internal/schedule"
	"github.com/theirongolddev/zenith/internal/store"
	"github.com/theirongolddev/zenith/internal/workout"
)

// Options controls how Open builds an App. Zero values come from Config.
type Options struct {
	Config   config.Config
	DataDir  string
	Backend  string
	Clock    dates.Clock
	Store    store.Backend
	Notifier notify.Notifier
	Mirror   *mirror.Session
}

// App is one loaded zenith profile. It is not safe for concurrent use.
type App struct {
	Config    config.Config
	DataDir   string
	Clock     dates.Clock
	Budget    *budget.Engine
	Schedule  *schedule.Engine
	Training  *workout.Log
	Nutrition *nutrition.Log
	Goal      workout.Goal
	Sync      *mirror.Syncer
	Notifier  notify.Notifier

	ctx     context.Context
	store   store.Backend
	owned   bool
	pending []mirror.Tombstone
}

// Open loads every engine from the store and wires persistence.
func Open(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	a := &App{
		Config:  cfg,
		DataDir: opts.DataDir,
		Clock:   opts.Clock,
		ctx:     ctx,
		store:   opts.Store,
	}
	if a.DataDir == "" {
		a.DataDir = config.DataDir(cfg)
	}
	if a.Clock == nil {
		a.Clock = dates.System
	}
	if a.store == nil {
		kind := opts.Backend
		if kind == "" {
			kind = cfg.Store.Backend
		}
		b, err := store.Open(kind, a.DataDir, config.RedisURL(cfg))
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		a.store = b
		a.owned = true
	}

	a.Notifier = opts.Notifier
	if a.Notifier == nil {
		a.Notifier = buildNotifier(ctx, cfg)
	}

	a.loadBudget()
	a.loadSchedule()
	a.loadTraining()
	a.loadNutrition()
	a.Goal = workout.Goal{Date: cfg.Gym.GoalDate, Weight: cfg.Gym.GoalWeight}

	a.pending = store.Load[[]mirror.Tombstone](ctx, a.store, store.KeyMirrorDeletes, nil)
	sess := opts.Mirror
	if sess == nil {
		sess = a.newMirrorSession()
	}
	a.Sync = mirror.NewSyncer(sess, mirrorLocal{a})
	return a, nil
}

// Close releases the store if Open created it.
func (a *App) Close() error {
	if a.owned {
		return a.store.Close()
	}
	return nil
}

// Store exposes the backend for diagnostics.
func (a *App) Store() store.Backend { return a.store }

// Today is the app clock's calendar date.
func (a *App) Today() string { return dates.Today(a.Clock) }

func (a *App) save(key string, v any) {
	store.Save(a.ctx, a.store, key, v)
}

func (a *App) saveMany(values map[string]any) {
	store.SaveMany(a.ctx, a.store, values)
}

func (a *App) loadBudget() {
	cfg := a.Config.Budget
	opts := budget.Options{
		DefaultBalance: cfg.DefaultBalance,
		AdjustStep:     cfg.AdjustStep,
		Refund:         budget.ParseRefundPolicy(cfg.RefundPolicy),
		Clock:          a.Clock,
		Notifier:       a.Notifier,
	}
	def := budget.DefaultState(opts)
	st := budget.State{
		Wallet: model.Wallet{
			Balance:      store.Load(a.ctx, a.store, store.KeyBalance, def.Wallet.Balance),
			MonthEndDate: store.Load(a.ctx, a.store, store.KeyMonthEnd, def.Wallet.MonthEndDate),
		},
		Transactions: store.Load[[]model.Transaction](a.ctx, a.store, store.KeyTransactions, nil),
		Buttons:      store.Load(a.ctx, a.store, store.KeyCustomButtons, def.Buttons),
	}
	opts.OnChange = func(s budget.State) {
		a.saveMany(map[string]any{
			store.KeyBalance:       s.Wallet.Balance,
			store.KeyMonthEnd:      s.Wallet.MonthEndDate,
			store.KeyTransactions:  s.Transactions,
			store.KeyCustomButtons: s.Buttons,
		})
	}
	a.Budget = budget.New(st, opts)
}

func (a *App) loadSchedule() {
	st := schedule.State{
		Template: store.Load(a.ctx, a.store, store.KeyTemplate, a.Config.Gym.Template),
		Anchors:  store.Load[map[string]model.Anchor](a.ctx, a.store, store.KeyAnchors, nil),
	}
	a.Schedule = schedule.New(st, schedule.Options{
		Clock: a.Clock,
		OnChange: func(s schedule.State) {
			a.saveMany(map[string]any{
				store.KeyTemplate: s.Template,
				store.KeyAnchors:  s.Anchors,
			})
		},
	})
}

func (a *App) loadTraining() {
	st := workout.State{
		Workouts: store.Load[[]model.Workout](a.ctx, a.store, store.KeyWorkouts, nil),
		Photos:   store.Load[[]model.Photo](a.ctx, a.store, store.KeyPhotos, nil),
	}
	a.Training = workout.New(st, workout.Options{
		Clock:    a.Clock,
		Notifier: a.Notifier,
		OnChange: func(s workout.State) {
			a.saveMany(map[string]any{
				store.KeyWorkouts: s.Workouts,
				store.KeyPhotos:   s.Photos,
			})
		},
	})
}

func (a *App) loadNutrition() {
	st := nutrition.State{
		Weights:     store.Load[[]model.WeightEntry](a.ctx, a.store, store.KeyWeightLog, nil),
		Protein:     store.Load[[]model.ProteinDay](a.ctx, a.store, store.KeyProteinLog, nil),
		ProteinGoal: store.Load(a.ctx, a.store, store.KeyProteinGoal, a.Config.Nutrition.ProteinGoal),
		Calories:    store.Load[[]model.CalorieEntry](a.ctx, a.store, store.KeyCalorieLog, nil),
	}
	a.Nutrition = nutrition.New(st, nutrition.Options{
		Clock: a.Clock,
		OnChange: func(s nutrition.State) {
			a.saveMany(map[string]any{
				store.KeyWeightLog:   s.Weights,
				store.KeyProteinLog:  s.Protein,
				store.KeyProteinGoal: s.ProteinGoal,
				store.KeyCalorieLog:  s.Calories,
			})
		},
	})
}

func buildNotifier(ctx context.Context, cfg config.Config) notify.Notifier {
	if !cfg.Notify.Enabled {
		return notify.Nop{}
	}
	sinks := notify.Multi{notify.Log{}}
	token := config.DiscordToken(cfg)
	if token != "" && cfg.Notify.DiscordChannel != "" {
		d, err := notify.NewDiscord(token, cfg.Notify.DiscordChannel)
		if err != nil {
			logger.FromContext(ctx).Warn("discord notifications disabled", "error", err)
		} else {
			sinks = append(sinks, d)
		}
	}
	return sinks
}

func (a *App) newMirrorSession() *mirror.Session {
	sc := a.Config.Sync
	creds := store.Load(a.ctx, a.store, store.KeyMirrorSession, mirror.Credentials{})
	s := mirror.NewSession(mirror.Config{
		ProjectID:       sc.ProjectID,
		APIKey:          config.FirebaseAPIKey(a.Config),
		StorageBucket:   sc.StorageBucket,
		WritesPerSecond: sc.WritesPerSecond,
	}, creds)
	s.SetEnabled(sc.Enabled)
	s.OnCredentials = func(c mirror.Credentials) {
		a.save(store.KeyMirrorSession, c)
	}
	return s
}

// PhotoDir is where progress photos are copied before upload.
func (a *App) PhotoDir() string {
	if a.Config.Gym.PhotoDir != "" {
		return a.Config.Gym.PhotoDir
	}
	return filepath.Join(a.DataDir, "photos")
}
