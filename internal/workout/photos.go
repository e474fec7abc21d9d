package workout

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
)

// AddPhoto records a progress photo stored at path.
func (l *Log) AddPhoto(date, caption, path string) (model.Photo, bool) {
	if date == "" {
		date = dates.Today(l.opts.Clock)
	}
	path = strings.TrimSpace(path)
	if path == "" || !dates.Valid(date) {
		return model.Photo{}, false
	}
	p := model.Photo{ID: uuid.NewString(), Date: date, Caption: strings.TrimSpace(caption), Path: path}
	l.state.Photos = append(l.state.Photos, p)
	l.changed()
	return p, true
}

// DeletePhoto removes a photo record. The file itself is left alone.
func (l *Log) DeletePhoto(id string) bool {
	for i, p := range l.state.Photos {
		if p.ID == id {
			l.state.Photos = append(l.state.Photos[:i:i], l.state.Photos[i+1:]...)
			l.changed()
			return true
		}
	}
	return false
}

// Photos returns photos newest first.
func (l *Log) Photos() []model.Photo {
	out := append([]model.Photo(nil), l.state.Photos...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// SetPhotoURL records where a photo was uploaded.
func (l *Log) SetPhotoURL(id, url string) bool {
	for i := range l.state.Photos {
		if l.state.Photos[i].ID == id {
			l.state.Photos[i].RemoteURL = url
			l.changed()
			return true
		}
	}
	return false
}

// ReplacePhotos overwrites the photo list wholesale.
func (l *Log) ReplacePhotos(ps []model.Photo) {
	l.state.Photos = append([]model.Photo(nil), ps...)
	l.changed()
}

// DueForPhoto reports whether the newest photo is at least a week old.
func (l *Log) DueForPhoto() bool {
	ps := l.Photos()
	if len(ps) == 0 {
		return true
	}
	return dates.DayDiff(ps[0].Date, dates.Today(l.opts.Clock)) >= 7
}
