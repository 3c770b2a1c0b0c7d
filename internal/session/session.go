// Package session holds per-visitor state: upstream auth tokens, the
// visitor's profile, the last search and the in-progress booking draft.
// Auth state is an explicit context object with a defined init (hydrate on
// login) and teardown (clear on logout or refresh failure), instead of ad
// hoc storage reads scattered through handlers.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/user_agent"

	"github.com/Thongnus/TrainTicket-sub000/internal/booking"
	"github.com/Thongnus/TrainTicket-sub000/internal/models"
	"github.com/Thongnus/TrainTicket-sub000/internal/search"
)

// Session is one visitor's server-side state. The mutex serializes the
// whole workflow: the original is a single-threaded browser app, and one
// session maps to one serialized sequence of operations.
type Session struct {
	ID uuid.UUID

	mu     sync.Mutex
	tokens models.TokenPair
	user   *models.User
	device string

	// Query is the search that produced Results; its passenger count
	// sizes the draft's slot arrays.
	Query   models.SearchQuery
	Results *models.SearchResult

	Selection search.Selection
	Checkout  *booking.Checkout

	createdAt time.Time
	lastSeen  time.Time
}

// Lock serializes access to the session's workflow state. Handlers hold it
// for the duration of one request.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Tokens returns the current token pair. Part of upstream.TokenSource;
// like all state accessors below it assumes the caller holds the session
// lock for the duration of the request.
func (s *Session) Tokens() models.TokenPair {
	return s.tokens
}

// UpdateTokens stores a rotated token pair after a refresh. Part of
// upstream.TokenSource.
func (s *Session) UpdateTokens(pair models.TokenPair) {
	s.tokens = pair
}

// Hydrate initializes the auth state from a successful login or signup,
// recording the client device parsed from the User-Agent header.
func (s *Session) Hydrate(result *models.AuthResult, userAgent string) {
	s.tokens = result.TokenPair
	user := result.User
	s.user = &user
	s.device = describeDevice(userAgent)
}

// ClearAuth tears the auth state down: logout, or a failed token refresh.
// Search results and the draft die with it.
func (s *Session) ClearAuth() {
	s.tokens = models.TokenPair{}
	s.user = nil
	s.device = ""
	s.ResetBooking()
	s.Results = nil
	s.Query = models.SearchQuery{}
	s.Selection = search.Selection{}
}

// ResetBooking drops the in-progress draft (navigation away or successful
// submission).
func (s *Session) ResetBooking() {
	s.Checkout = nil
}

// LoggedIn reports whether the session carries upstream credentials.
func (s *Session) LoggedIn() bool {
	return s.tokens.AccessToken != ""
}

// User returns the hydrated profile, or nil for anonymous sessions.
func (s *Session) User() *models.User {
	return s.user
}

// SetUser replaces the cached profile (after a profile update).
func (s *Session) SetUser(user *models.User) {
	s.user = user
}

// Device returns the human-readable client device recorded at login.
func (s *Session) Device() string {
	return s.device
}

// describeDevice turns a User-Agent header into "Browser version on OS".
func describeDevice(userAgent string) string {
	if userAgent == "" {
		return "unknown device"
	}
	ua := user_agent.New(userAgent)
	browser, version := ua.Browser()
	if browser == "" {
		return "unknown device"
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("%s %s on %s", browser, version, os)
	}
	return fmt.Sprintf("%s %s", browser, version)
}
