package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Collection kinds under users/{uid}.
const (
	KindBudget   = "budget"
	KindWorkouts = "workouts"
	KindPhotos   = "photos"
)

const pushConcurrency = 4

// Doc is one record to upsert. Data must encode to a JSON object.
type Doc struct {
	ID   string
	Data any
}

func (s *Session) documentsURL() string {
	return fmt.Sprintf("%s/projects/%s/databases/(default)/documents",
		s.cfg.Endpoints.Firestore, url.PathEscape(s.cfg.ProjectID))
}

func (s *Session) userPath() (string, error) {
	uid := s.UID()
	if uid == "" {
		return "", ErrUnavailable
	}
	return "users/" + url.PathEscape(uid), nil
}

// PushCollection upserts every doc under users/{uid}/{kind}/{id}. Each
// record is written whole, replacing whatever the remote held for that id.
// It returns how many documents were written.
func (s *Session) PushCollection(ctx context.Context, kind string, docs []Doc) (int, error) {
	if !s.Enabled() {
		return 0, ErrUnavailable
	}
	if _, err := s.idToken(ctx); err != nil {
		return 0, err
	}
	user, err := s.userPath()
	if err != nil {
		return 0, err
	}

	syncedAt := time.Now().UTC().Format(time.RFC3339)
	var written atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pushConcurrency)
	for _, d := range docs {
		if d.ID == "" {
			continue
		}
		d := d
		g.Go(func() error {
			fields, err := encodeFields(d.Data)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", kind, d.ID, err)
			}
			synced := true
			fields["synced"] = value{BooleanValue: &synced}
			fields["syncedAt"] = value{StringValue: &syncedAt}

			payload, err := json.Marshal(document{Fields: fields})
			if err != nil {
				return err
			}
			if err := s.limiter.Wait(gctx); err != nil {
				return err
			}
			u := fmt.Sprintf("%s/%s/%s/%s", s.documentsURL(), user, url.PathEscape(kind), url.PathEscape(d.ID))
			if _, err := s.authed(gctx, http.MethodPatch, u, payload); err != nil {
				return fmt.Errorf("%s/%s: %w", kind, d.ID, err)
			}
			written.Add(1)
			return nil
		})
	}
	err = g.Wait()
	return int(written.Load()), err
}

// DeleteDoc removes users/{uid}/{kind}/{id}. A document that is already
// gone counts as deleted.
func (s *Session) DeleteDoc(ctx context.Context, kind, id string) error {
	if !s.Enabled() {
		return ErrUnavailable
	}
	if id == "" {
		return errors.New("mirror: empty document id")
	}
	if _, err := s.idToken(ctx); err != nil {
		return err
	}
	user, err := s.userPath()
	if err != nil {
		return err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	u := fmt.Sprintf("%s/%s/%s/%s", s.documentsURL(), user, url.PathEscape(kind), url.PathEscape(id))
	_, err = s.authed(ctx, http.MethodDelete, u, nil)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("deleting %s/%s: %w", kind, id, err)
	}
	return nil
}

type runQueryRow struct {
	Document *document `json:"document"`
}

// PullCollection returns every document of kind ordered by date, newest
// first, decoded into T. The sync bookkeeping fields are dropped.
func PullCollection[T any](ctx context.Context, s *Session, kind string) ([]T, error) {
	if !s.Enabled() {
		return nil, ErrUnavailable
	}
	if _, err := s.idToken(ctx); err != nil {
		return nil, err
	}
	user, err := s.userPath()
	if err != nil {
		return nil, err
	}

	query := map[string]any{
		"structuredQuery": map[string]any{
			"from": []map[string]any{{"collectionId": kind}},
			"orderBy": []map[string]any{{
				"field":     map[string]string{"fieldPath": "date"},
				"direction": "DESCENDING",
			}},
		},
	}
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	data, err := s.authed(ctx, http.MethodPost, s.documentsURL()+"/"+user+":runQuery", payload)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", kind, err)
	}
	var rows []runQueryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", kind, err)
	}

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if r.Document == nil {
			continue
		}
		delete(r.Document.Fields, "synced")
		delete(r.Document.Fields, "syncedAt")
		var rec T
		if err := decodeInto(r.Document.Fields, &rec); err != nil {
			return nil, fmt.Errorf("decoding %s document %s: %w", kind, r.Document.Name, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Session) metadataURL() (string, error) {
	user, err := s.userPath()
	if err != nil {
		return "", err
	}
	return s.documentsURL() + "/" + user + "/profile/metadata", nil
}

// InitialSyncDone reads the first-upload marker from the user's profile.
func (s *Session) InitialSyncDone(ctx context.Context) (bool, error) {
	if !s.Enabled() {
		return false, ErrUnavailable
	}
	if _, err := s.idToken(ctx); err != nil {
		return false, err
	}
	u, err := s.metadataURL()
	if err != nil {
		return false, err
	}
	data, err := s.authed(ctx, http.MethodGet, u, nil)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("decoding profile: %w", err)
	}
	v, ok := doc.Fields["initialSyncDone"]
	return ok && v.BooleanValue != nil && *v.BooleanValue, nil
}

// MarkInitialSync records that the first upload finished.
func (s *Session) MarkInitialSync(ctx context.Context) error {
	if !s.Enabled() {
		return ErrUnavailable
	}
	if _, err := s.idToken(ctx); err != nil {
		return err
	}
	u, err := s.metadataURL()
	if err != nil {
		return err
	}
	done := true
	at := time.Now().UTC().Format(time.RFC3339)
	payload, err := json.Marshal(document{Fields: map[string]value{
		"initialSyncDone": {BooleanValue: &done},
		"initialSyncAt":   {StringValue: &at},
	}})
	if err != nil {
		return err
	}
	_, err = s.authed(ctx, http.MethodPatch, u, payload)
	return err
}

type uploadResponse struct {
	Name           string `json:"name"`
	Bucket         string `json:"bucket"`
	DownloadTokens string `json:"downloadTokens"`
}

// UploadPhoto stores the image at path under users/{uid}/photos/{id}.jpg in
// the project bucket and returns its download URL.
func (s *Session) UploadPhoto(ctx context.Context, id, path string) (string, error) {
	if !s.Enabled() || s.cfg.StorageBucket == "" {
		return "", ErrUnavailable
	}
	if _, err := s.idToken(ctx); err != nil {
		return "", err
	}
	uid := s.UID()
	img, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("reading photo: %w", err)
	}

	object := "users/" + uid + "/photos/" + id + ".jpg"
	base := fmt.Sprintf("%s/b/%s/o", s.cfg.Endpoints.Storage, url.PathEscape(s.cfg.StorageBucket))
	u := base + "?uploadType=media&name=" + url.QueryEscape(object)

	data, err := s.authedType(ctx, http.MethodPost, u, img, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}
	var r uploadResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	name := r.Name
	if name == "" {
		name = object
	}
	dl := base + "/" + url.PathEscape(name) + "?alt=media"
	if tok := strings.Split(r.DownloadTokens, ",")[0]; tok != "" {
		dl += "&token=" + url.QueryEscape(tok)
	}
	return dl, nil
}
