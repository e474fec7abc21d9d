package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/zenith/internal/logger"
	"github.com/theirongolddev/zenith/internal/model"
)

// Result is the outcome of a mirror operation.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

func fail(err error) Result {
	if errors.Is(err, ErrUnavailable) {
		return Result{Message: "Offline or not authenticated"}
	}
	return Result{Message: err.Error()}
}

// Tombstone is a local delete the remote has not seen yet.
type Tombstone struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Local is the app state the syncer reads and overwrites.
type Local interface {
	Transactions() []model.Transaction
	Workouts() []model.Workout
	Photos() []model.Photo
	ReplaceTransactions([]model.Transaction)
	ReplaceWorkouts([]model.Workout)
	ReplacePhotos([]model.Photo)
	SetPhotoURL(id, url string)

	// PendingDeletes lists local deletes not yet applied remotely.
	PendingDeletes() []Tombstone
	// DeletesApplied drops the given tombstones from the pending list.
	DeletesApplied([]Tombstone)
}

// Syncer moves whole collections between local state and a Session.
// Conflicts are resolved by overwrite in the direction of the call.
type Syncer struct {
	session *Session
	local   Local
}

// NewSyncer binds a session to local state.
func NewSyncer(s *Session, local Local) *Syncer {
	return &Syncer{session: s, local: local}
}

// Session returns the bound session.
func (y *Syncer) Session() *Session { return y.session }

// SyncAll pushes budget transactions, workouts, and photos.
func (y *Syncer) SyncAll(ctx context.Context) Result {
	if !y.session.Enabled() {
		return fail(ErrUnavailable)
	}
	log := logger.FromContext(ctx)

	nd, err := y.flushDeletes(ctx)
	if err != nil {
		log.Warn("remote delete failed", "error", err)
		return fail(err)
	}

	txns := y.local.Transactions()
	tdocs := make([]Doc, 0, len(txns))
	for _, t := range txns {
		tdocs = append(tdocs, Doc{ID: t.ID, Data: t})
	}
	nt, err := y.session.PushCollection(ctx, KindBudget, tdocs)
	if err != nil {
		log.Warn("budget sync failed", "error", err)
		return fail(err)
	}

	ws := y.local.Workouts()
	wdocs := make([]Doc, 0, len(ws))
	for _, w := range ws {
		wdocs = append(wdocs, Doc{ID: w.ID, Data: w})
	}
	nw, err := y.session.PushCollection(ctx, KindWorkouts, wdocs)
	if err != nil {
		log.Warn("workout sync failed", "error", err)
		return fail(err)
	}

	np, err := y.syncPhotos(ctx)
	if err != nil {
		log.Warn("photo sync failed", "error", err)
		return fail(err)
	}

	return Result{
		Success: true,
		Message: syncedMessage(nt, nw, np, nd),
		Count:   nt + nw + np + nd,
	}
}

func syncedMessage(nt, nw, np, nd int) string {
	msg := fmt.Sprintf("Synced %d transactions, %d workouts, %d photos", nt, nw, np)
	if nd > 0 {
		msg += fmt.Sprintf(", removed %d", nd)
	}
	return msg
}

// flushDeletes applies pending local deletes remotely, oldest first. It
// stops at the first failure; what was applied so far is still cleared.
func (y *Syncer) flushDeletes(ctx context.Context) (int, error) {
	pending := y.local.PendingDeletes()
	if len(pending) == 0 {
		return 0, nil
	}
	var done []Tombstone
	var err error
	for _, t := range pending {
		if err = y.session.DeleteDoc(ctx, t.Kind, t.ID); err != nil {
			break
		}
		done = append(done, t)
	}
	if len(done) > 0 {
		y.local.DeletesApplied(done)
	}
	return len(done), err
}

// Delete removes one record remotely right away.
func (y *Syncer) Delete(ctx context.Context, kind, id string) Result {
	if err := y.session.DeleteDoc(ctx, kind, id); err != nil {
		return fail(err)
	}
	return Result{Success: true, Message: fmt.Sprintf("Removed %s/%s", kind, id), Count: 1}
}

// syncPhotos uploads image files that have no remote copy yet, when a
// bucket is configured, then pushes photo metadata.
func (y *Syncer) syncPhotos(ctx context.Context) (int, error) {
	photos := y.local.Photos()
	if y.session.cfg.StorageBucket != "" {
		for i, p := range photos {
			if p.RemoteURL != "" || p.Path == "" {
				continue
			}
			u, err := y.session.UploadPhoto(ctx, p.ID, p.Path)
			if err != nil {
				logger.FromContext(ctx).Warn("photo upload failed", "id", p.ID, "error", err)
				continue
			}
			photos[i].RemoteURL = u
			y.local.SetPhotoURL(p.ID, u)
		}
	}
	docs := make([]Doc, 0, len(photos))
	for _, p := range photos {
		docs = append(docs, Doc{ID: p.ID, Data: p})
	}
	return y.session.PushCollection(ctx, KindPhotos, docs)
}

// FetchAll pulls every collection and overwrites the local copy of each
// kind whose remote collection is non-empty.
func (y *Syncer) FetchAll(ctx context.Context) Result {
	if !y.session.Enabled() {
		return fail(ErrUnavailable)
	}
	// Remote copies of locally deleted records must be gone before the
	// pull, or they would come back.
	if _, err := y.flushDeletes(ctx); err != nil {
		return fail(err)
	}

	txns, err := PullCollection[model.Transaction](ctx, y.session, KindBudget)
	if err != nil {
		return fail(err)
	}
	ws, err := PullCollection[model.Workout](ctx, y.session, KindWorkouts)
	if err != nil {
		return fail(err)
	}
	ps, err := PullCollection[model.Photo](ctx, y.session, KindPhotos)
	if err != nil {
		return fail(err)
	}

	if len(txns) > 0 {
		y.local.ReplaceTransactions(txns)
	}
	if len(ws) > 0 {
		y.local.ReplaceWorkouts(ws)
	}
	if len(ps) > 0 {
		y.local.ReplacePhotos(ps)
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("Fetched %d transactions, %d workouts, %d photos", len(txns), len(ws), len(ps)),
		Count:   len(txns) + len(ws) + len(ps),
	}
}

// InitialSync uploads everything once per user. Later calls see the
// profile marker and do nothing.
func (y *Syncer) InitialSync(ctx context.Context) Result {
	if !y.session.Enabled() {
		return fail(ErrUnavailable)
	}
	done, err := y.session.InitialSyncDone(ctx)
	if err != nil {
		return fail(err)
	}
	if done {
		return Result{Success: true, Message: "Initial sync already done"}
	}
	r := y.SyncAll(ctx)
	if !r.Success {
		return r
	}
	if err := y.session.MarkInitialSync(ctx); err != nil {
		return fail(err)
	}
	r.Message = "Initial sync complete: " + r.Message
	return r
}
