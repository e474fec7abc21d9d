package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/logger"
	"github.com/theirongolddev/zenith/internal/mirror"
	"github.com/theirongolddev/zenith/internal/model"
	"github.com/theirongolddev/zenith/internal/notify"
	"github.com/theirongolddev/zenith/internal/sheet"
	"github.com/theirongolddev/zenith/internal/store"
)

// mirrorLocal adapts the engines to mirror.Local.
type mirrorLocal struct{ a *App }

func (m mirrorLocal) Transactions() []model.Transaction { return m.a.Budget.State().Transactions }
func (m mirrorLocal) Workouts() []model.Workout         { return m.a.Training.State().Workouts }
func (m mirrorLocal) Photos() []model.Photo             { return m.a.Training.Photos() }

func (m mirrorLocal) ReplaceTransactions(t []model.Transaction) { m.a.Budget.ReplaceTransactions(t) }
func (m mirrorLocal) ReplaceWorkouts(w []model.Workout)         { m.a.Training.Replace(w) }
func (m mirrorLocal) ReplacePhotos(p []model.Photo)             { m.a.Training.ReplacePhotos(p) }
func (m mirrorLocal) SetPhotoURL(id, url string)                { m.a.Training.SetPhotoURL(id, url) }

func (m mirrorLocal) PendingDeletes() []mirror.Tombstone {
	return append([]mirror.Tombstone(nil), m.a.pending...)
}

func (m mirrorLocal) DeletesApplied(done []mirror.Tombstone) {
	m.a.pending = slices.DeleteFunc(m.a.pending, func(t mirror.Tombstone) bool {
		return slices.Contains(done, t)
	})
	m.a.save(store.KeyMirrorDeletes, m.a.pending)
}

// forget queues the remote copy of a deleted record for removal on the
// next sync. Nothing is queued when no mirror is configured.
func (a *App) forget(kind, id string) {
	if !a.Sync.Session().Configured() {
		return
	}
	a.pending = append(a.pending, mirror.Tombstone{Kind: kind, ID: id})
	a.save(store.KeyMirrorDeletes, a.pending)
}

// FreezeForSync copies what a push reads, for a sync that runs while the
// caller no longer guards the app. Hand the result to ThawSynced afterwards.
func (a *App) FreezeForSync() *mirror.Frozen { return mirror.Freeze(mirrorLocal{a}) }

// ThawSynced applies photo URLs and remote deletes recorded by a sync over f.
func (a *App) ThawSynced(f *mirror.Frozen) { f.Thaw(mirrorLocal{a}) }

// PendingDeletes is how many local deletes the mirror has not seen yet.
func (a *App) PendingDeletes() int { return len(a.pending) }

// DeleteTransaction removes a transaction, crediting the wallet per the
// refund policy, and queues the remote copy for deletion.
func (a *App) DeleteTransaction(id string) bool {
	if !a.Budget.DeleteTransaction(id) {
		return false
	}
	a.forget(mirror.KindBudget, id)
	return true
}

// DeleteWorkout removes a workout and queues the remote copy for deletion.
func (a *App) DeleteWorkout(id string) bool {
	if !a.Training.Delete(id) {
		return false
	}
	a.forget(mirror.KindWorkouts, id)
	return true
}

// DeletePhoto removes a photo record and queues the remote copy for deletion.
func (a *App) DeletePhoto(id string) bool {
	if !a.Training.DeletePhoto(id) {
		return false
	}
	a.forget(mirror.KindPhotos, id)
	return true
}

// AutoSync pushes to the mirror after a mutation when the config asks for
// it. Failures are logged.
func (a *App) AutoSync(ctx context.Context) {
	if !a.Config.Sync.AutoSync || !a.Sync.Session().Enabled() {
		return
	}
	if r := a.Sync.SyncAll(ctx); !r.Success {
		logger.FromContext(ctx).Warn("auto sync failed", "message", r.Message)
	}
}

// Remind sends today's allowance and scheduled slot.
func (a *App) Remind(ctx context.Context) {
	notify.Send(ctx, a.Notifier, notify.DailyLimit(a.Budget.DailyLimit()))
	day := a.Schedule.Today()
	notify.Send(ctx, a.Notifier, notify.WorkoutDay(day.Slot.Key, day.Slot.Title))
	if a.Training.DueForPhoto() {
		notify.Send(ctx, a.Notifier, notify.ProgressPhoto())
	}
}

// ExportData collects everything the workbook holds.
func (a *App) ExportData() sheet.Data {
	return sheet.Data{
		Transactions: a.Budget.State().Transactions,
		Workouts:     a.Training.Workouts(),
		Weights:      a.Nutrition.Weights(),
	}
}

// Export writes the workbook to path.
func (a *App) Export(path string) (sheet.Counts, error) {
	return sheet.Export(path, a.ExportData())
}

// ExportTo streams the workbook to w.
func (a *App) ExportTo(w io.Writer) (sheet.Counts, error) {
	return sheet.Write(w, a.ExportData())
}

// Import merges a workbook into history and reports what was added.
// Transactions arrive as history and never touch the balance.
func (a *App) Import(path string) (sheet.Counts, error) {
	d, err := sheet.Import(path)
	if err != nil {
		return sheet.Counts{}, err
	}
	return a.merge(d), nil
}

// ImportFrom is Import for a workbook held in memory.
func (a *App) ImportFrom(r io.Reader) (sheet.Counts, error) {
	d, err := sheet.Read(r)
	if err != nil {
		return sheet.Counts{}, err
	}
	return a.merge(d), nil
}

func (a *App) merge(d sheet.Data) sheet.Counts {
	var c sheet.Counts
	c.Transactions = a.Budget.AppendHistory(d.Transactions)
	before := len(a.Training.State().Workouts)
	c.Workouts = a.Training.AppendHistory(d.Workouts)
	if c.Workouts > 0 {
		for _, w := range a.Training.State().Workouts[before:] {
			for _, e := range w.Exercises {
				c.Sets += len(e.Sets)
			}
		}
	}
	for _, w := range d.Weights {
		if a.Nutrition.LogWeight(w.Date, w.Weight) {
			c.Weights++
		}
	}
	return c
}

// AddPhoto copies the image at src into the photo dir and records it.
func (a *App) AddPhoto(date, caption, src string) (model.Photo, error) {
	if date == "" {
		date = a.Today()
	}
	if !dates.Valid(date) {
		return model.Photo{}, fmt.Errorf("invalid photo date %q", date)
	}
	dir := a.PhotoDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return model.Photo{}, fmt.Errorf("creating photo dir: %w", err)
	}
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return model.Photo{}, fmt.Errorf("opening photo: %w", err)
	}
	defer func() { _ = in.Close() }()

	ext := strings.ToLower(filepath.Ext(src))
	if ext == "" {
		ext = ".jpg"
	}
	out, err := os.CreateTemp(dir, date+"-*"+ext)
	if err != nil {
		return model.Photo{}, fmt.Errorf("creating photo file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return model.Photo{}, fmt.Errorf("copying photo: %w", err)
	}
	if err := out.Close(); err != nil {
		return model.Photo{}, fmt.Errorf("closing photo file: %w", err)
	}

	p, ok := a.Training.AddPhoto(date, caption, out.Name())
	if !ok {
		_ = os.Remove(out.Name())
		return model.Photo{}, fmt.Errorf("recording photo %q failed", src)
	}
	return p, nil
}

// SyncResult renders r as one line.
func SyncResult(r mirror.Result) string {
	if r.Success {
		return r.Message
	}
	return "Sync failed: " + r.Message
}
