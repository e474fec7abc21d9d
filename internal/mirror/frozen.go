package mirror

import (
	"slices"

	"github.com/theirongolddev/zenith/internal/model"
)

// Frozen is a Local holding copies of another Local's collections, so a
// push can run without holding whatever guards the live state. Writes the
// syncer makes land in URLs and Applied for the caller to copy back.
type Frozen struct {
	txns     []model.Transaction
	workouts []model.Workout
	photos   []model.Photo
	deletes  []Tombstone

	URLs    map[string]string
	Applied []Tombstone
}

// Freeze copies everything a push reads from l.
func Freeze(l Local) *Frozen {
	return &Frozen{
		txns:     slices.Clone(l.Transactions()),
		workouts: slices.Clone(l.Workouts()),
		photos:   slices.Clone(l.Photos()),
		deletes:  slices.Clone(l.PendingDeletes()),
	}
}

// Thaw copies the syncer's writes back into l.
func (f *Frozen) Thaw(l Local) {
	for id, u := range f.URLs {
		l.SetPhotoURL(id, u)
	}
	if len(f.Applied) > 0 {
		l.DeletesApplied(f.Applied)
	}
}

func (f *Frozen) Transactions() []model.Transaction { return f.txns }
func (f *Frozen) Workouts() []model.Workout         { return f.workouts }
func (f *Frozen) Photos() []model.Photo             { return slices.Clone(f.photos) }
func (f *Frozen) PendingDeletes() []Tombstone       { return slices.Clone(f.deletes) }

func (f *Frozen) ReplaceTransactions(t []model.Transaction) { f.txns = t }
func (f *Frozen) ReplaceWorkouts(w []model.Workout)         { f.workouts = w }
func (f *Frozen) ReplacePhotos(p []model.Photo)             { f.photos = p }

func (f *Frozen) SetPhotoURL(id, url string) {
	if f.URLs == nil {
		f.URLs = make(map[string]string)
	}
	f.URLs[id] = url
}

func (f *Frozen) DeletesApplied(done []Tombstone) {
	f.Applied = append(f.Applied, done...)
	f.deletes = slices.DeleteFunc(f.deletes, func(t Tombstone) bool { return slices.Contains(done, t) })
}
