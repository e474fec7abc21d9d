// Package mirror pushes and pulls zenith records to a Firestore database
// over its REST API.
//
// The mirror is never a source of truth. Every operation returns a Result
// instead of an error, and a disabled or signed-out Session turns every
// call into a failed Result without touching the network.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	defaultIdentityURL  = "https://identitytoolkit.googleapis.com/v1"
	defaultTokenURL     = "https://securetoken.googleapis.com/v1/token"
	defaultFirestoreURL = "https://firestore.googleapis.com/v1"
	defaultStorageURL   = "https://firebasestorage.googleapis.com/v0"

	requestTimeout = 15 * time.Second
	maxBodySize    = 8 << 20
	tokenSkew      = time.Minute
	idTokenKey     = "id"
)

var (
	// ErrUnauthorized means the token was rejected.
	ErrUnauthorized = errors.New("mirror: unauthorized")
	// ErrNotFound means the document does not exist.
	ErrNotFound = errors.New("mirror: not found")
	// ErrRateLimited means the backend throttled the request.
	ErrRateLimited = errors.New("mirror: rate limited")
	// ErrUnavailable means the session is disabled or incomplete.
	ErrUnavailable = errors.New("mirror: offline or not authenticated")
)

// Endpoints override the Google API base URLs. Empty fields use production.
type Endpoints struct {
	Identity  string
	Token     string
	Firestore string
	Storage   string
}

// Config identifies the Firebase project.
type Config struct {
	ProjectID       string
	APIKey          string
	StorageBucket   string
	WritesPerSecond float64
	Endpoints       Endpoints
	HTTPClient      *http.Client
}

// Credentials are the persisted identity of an anonymous user.
type Credentials struct {
	UID          string `json:"uid"`
	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken"`
}

// Session is one authenticated connection to the mirror. Independent
// sessions share nothing.
type Session struct {
	cfg     Config
	http    *http.Client
	tokens  *cache.Cache
	limiter *rate.Limiter

	mu      sync.Mutex
	creds   Credentials
	enabled bool

	// OnCredentials runs whenever sign-in or refresh changes the credentials.
	OnCredentials func(Credentials)
}

// NewSession returns a session. It is enabled when the project is configured;
// no network call is made until the first operation.
func NewSession(cfg Config, creds Credentials) *Session {
	if cfg.Endpoints.Identity == "" {
		cfg.Endpoints.Identity = defaultIdentityURL
	}
	if cfg.Endpoints.Token == "" {
		cfg.Endpoints.Token = defaultTokenURL
	}
	if cfg.Endpoints.Firestore == "" {
		cfg.Endpoints.Firestore = defaultFirestoreURL
	}
	if cfg.Endpoints.Storage == "" {
		cfg.Endpoints.Storage = defaultStorageURL
	}
	if cfg.WritesPerSecond <= 0 {
		cfg.WritesPerSecond = 10
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	s := &Session{
		cfg:     cfg,
		http:    client,
		tokens:  cache.New(cache.NoExpiration, 10*time.Minute),
		limiter: rate.NewLimiter(rate.Limit(cfg.WritesPerSecond), int(cfg.WritesPerSecond)+1),
		creds:   creds,
		enabled: cfg.ProjectID != "" && cfg.APIKey != "",
	}
	if creds.IDToken != "" {
		s.cacheIDToken(creds.IDToken, 0)
	}
	return s
}

// Enabled reports whether operations will be attempted.
func (s *Session) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// SetEnabled turns the session on or off. A session without a project
// cannot be enabled.
func (s *Session) SetEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = on && s.cfg.ProjectID != "" && s.cfg.APIKey != ""
}

// Configured reports whether a project and API key are set, whether or not
// syncing is currently switched on.
func (s *Session) Configured() bool {
	return s.cfg.ProjectID != "" && s.cfg.APIKey != ""
}

// Credentials returns the current identity.
func (s *Session) Credentials() Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

// UID is the signed-in user id, empty before sign-in.
func (s *Session) UID() string {
	return s.Credentials().UID
}

// SignIn makes sure the session has a user. It reuses a stored refresh
// token and otherwise signs up a new anonymous user.
func (s *Session) SignIn(ctx context.Context) error {
	if !s.Enabled() {
		return ErrUnavailable
	}
	creds := s.Credentials()
	if creds.UID != "" && creds.RefreshToken != "" {
		if _, ok := s.tokens.Get(idTokenKey); ok {
			return nil
		}
		return s.refresh(ctx)
	}
	return s.signUp(ctx)
}

type signUpResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
}

func (s *Session) signUp(ctx context.Context) error {
	u := s.cfg.Endpoints.Identity + "/accounts:signUp?key=" + url.QueryEscape(s.cfg.APIKey)
	body, err := s.do(ctx, http.MethodPost, u, strings.NewReader(`{"returnSecureToken":true}`), "application/json", "")
	if err != nil {
		return fmt.Errorf("anonymous sign-in: %w", err)
	}
	var r signUpResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return fmt.Errorf("decoding sign-in response: %w", err)
	}
	if r.LocalID == "" || r.IDToken == "" {
		return fmt.Errorf("anonymous sign-in: %w", ErrUnauthorized)
	}
	s.setCredentials(Credentials{UID: r.LocalID, IDToken: r.IDToken, RefreshToken: r.RefreshToken}, r.ExpiresIn)
	return nil
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

func (s *Session) refresh(ctx context.Context) error {
	creds := s.Credentials()
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", creds.RefreshToken)

	u := s.cfg.Endpoints.Token + "?key=" + url.QueryEscape(s.cfg.APIKey)
	body, err := s.do(ctx, http.MethodPost, u, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", "")
	if err != nil {
		return fmt.Errorf("refreshing token: %w", err)
	}
	var r refreshResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return fmt.Errorf("decoding refresh response: %w", err)
	}
	if r.IDToken == "" {
		return fmt.Errorf("refreshing token: %w", ErrUnauthorized)
	}
	uid := r.UserID
	if uid == "" {
		uid = creds.UID
	}
	rt := r.RefreshToken
	if rt == "" {
		rt = creds.RefreshToken
	}
	s.setCredentials(Credentials{UID: uid, IDToken: r.IDToken, RefreshToken: rt}, r.ExpiresIn)
	return nil
}

func (s *Session) setCredentials(c Credentials, expiresIn string) {
	secs, _ := strconv.Atoi(expiresIn)
	s.cacheIDToken(c.IDToken, time.Duration(secs)*time.Second)

	s.mu.Lock()
	s.creds = c
	cb := s.OnCredentials
	s.mu.Unlock()
	if cb != nil {
		cb(c)
	}
}

// cacheIDToken stores tok until shortly before its exp claim. fallback is
// used when the token carries no readable expiry.
func (s *Session) cacheIDToken(tok string, fallback time.Duration) {
	ttl := fallback
	if exp, ok := tokenExpiry(tok); ok {
		ttl = time.Until(exp)
	}
	ttl -= tokenSkew
	if ttl <= 0 {
		s.tokens.Delete(idTokenKey)
		return
	}
	s.tokens.Set(idTokenKey, tok, ttl)
}

// tokenExpiry reads the exp claim without verifying the signature. The
// token is only forwarded to Google, which does the verification.
func tokenExpiry(tok string) (time.Time, bool) {
	t, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := t.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// idToken returns a valid ID token, signing in or refreshing as needed.
func (s *Session) idToken(ctx context.Context) (string, error) {
	if v, ok := s.tokens.Get(idTokenKey); ok {
		return v.(string), nil
	}
	if err := s.SignIn(ctx); err != nil {
		return "", err
	}
	v, ok := s.tokens.Get(idTokenKey)
	if !ok {
		return "", ErrUnauthorized
	}
	return v.(string), nil
}

// authed performs a request with a bearer token and retries once with a
// fresh token when the first attempt is rejected.
func (s *Session) authed(ctx context.Context, method, u string, payload []byte) ([]byte, error) {
	return s.authedType(ctx, method, u, payload, "application/json")
}

func (s *Session) authedType(ctx context.Context, method, u string, payload []byte, contentType string) ([]byte, error) {
	if !s.Enabled() {
		return nil, ErrUnavailable
	}
	for attempt := 0; ; attempt++ {
		tok, err := s.idToken(ctx)
		if err != nil {
			return nil, err
		}
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		data, err := s.do(ctx, method, u, body, contentType, "Bearer "+tok)
		if errors.Is(err, ErrUnauthorized) && attempt == 0 {
			s.tokens.Delete(idTokenKey)
			if rerr := s.refresh(ctx); rerr != nil {
				return nil, err
			}
			continue
		}
		return data, err
	}
}

func (s *Session) do(ctx context.Context, method, u string, body io.Reader, contentType, auth string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("mirror: creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("mirror: reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return data, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		snippet := string(data)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("mirror: unexpected status %d: %s", resp.StatusCode, snippet)
	}
}
