// Package view drives one operator's accident alert screen: it loads the
// accident, owns the recipient selection and runs a single dispatch at a time.
package view

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/roadwatch/roadwatch/internal/accident"
	"github.com/roadwatch/roadwatch/internal/alert"
	"github.com/roadwatch/roadwatch/internal/logger"
	"github.com/roadwatch/roadwatch/internal/model"
	"github.com/roadwatch/roadwatch/internal/notice"
)

// State is the lifecycle state of a session
type State string

// Session states
const (
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
)

// ErrSubmitInProgress rejects a second submit while one is in flight
var ErrSubmitInProgress = errors.New("alert submission already in progress")

// Operator-facing notice texts
const (
	MsgSending         = "Sending alert..."
	MsgSent            = "Mail Sent Successfully"
	MsgFailed          = "Mail Failed"
	MsgNoRecipients    = "No rescue team selected"
	MsgDataUnavailable = "No accident data available"
	MsgNotFound        = "Accident not found"
	MsgLoadFailed      = "Failed to load accident data"
)

// Dispatcher sends one alert. *alert.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, selection []model.RescueTeamContact, loc model.AccidentLocation) alert.Result
}

// Deps are the collaborators shared by all sessions
type Deps struct {
	Directory  *alert.Directory
	Provider   accident.Provider
	Dispatcher Dispatcher
	Notices    notice.Publisher
	Log        *logger.Logger
}

// Session is one accident alert view. Its methods are safe for concurrent
// use; the lock is not held while the mail transport runs, so selection
// changes made during a submit only affect the next submit.
type Session struct {
	id         string
	accidentID string
	deps       Deps
	log        *logger.Logger

	mu          sync.Mutex
	state       State
	selection   *alert.Selection
	accident    *model.Accident
	notice      *model.Notice
	lastOutcome alert.Outcome
	lastActive  time.Time
}

// NewSession creates a session for accidentID in the Loading state
func NewSession(id, accidentID string, deps Deps) *Session {
	return &Session{
		id:         id,
		accidentID: accidentID,
		deps:       deps,
		log:        deps.Log.WithSessionID(id),
		state:      StateLoading,
		selection:  alert.NewSelection(deps.Directory),
		lastActive: time.Now(),
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// AccidentID returns the accident this session alerts about
func (s *Session) AccidentID() string {
	return s.accidentID
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastActive returns the time of the last operator action
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Load queries the accident provider. A missing record keeps the session in
// Loading without error.
func (s *Session) Load(ctx context.Context) error {
	a, err := s.deps.Provider.Get(ctx, s.accidentID)
	if err != nil {
		msg := MsgLoadFailed
		if errors.Is(err, accident.ErrNotFound) {
			msg = MsgNotFound
		} else {
			s.log.Error().Err(err).Str("accident_id", s.accidentID).Msg("failed to load accident")
		}
		s.publish(ctx, model.NoticeError, msg)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	if a == nil {
		return nil
	}
	s.accident = a
	if s.state == StateLoading {
		s.state = StateReady
	}
	return nil
}

// ToggleOne flips one recipient. Unknown ids are ignored.
func (s *Session) ToggleOne(contactID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	return s.selection.ToggleOne(contactID)
}

// ToggleAll selects or deselects every recipient
func (s *Session) ToggleAll(selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	s.selection.ToggleAll(selected)
}

// Submit dispatches the alert to the currently selected recipients. Local
// rejections (no accident data, submit in flight) return an error; dispatch
// outcomes, including failures, come back in the Result. The dispatch is not
// cancelled when ctx is.
func (s *Session) Submit(ctx context.Context) (alert.Result, error) {
	s.mu.Lock()
	s.lastActive = time.Now()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return alert.Result{}, ErrSubmitInProgress
	}
	if s.accident == nil {
		s.mu.Unlock()
		s.publish(ctx, model.NoticeError, MsgDataUnavailable)
		return alert.Result{}, alert.ErrDataUnavailable
	}
	snapshot := s.selection.Snapshot()
	loc := s.accident.Location()
	s.state = StateSubmitting
	s.mu.Unlock()

	s.publish(ctx, model.NoticeLoading, MsgSending)

	res := s.deps.Dispatcher.Dispatch(context.WithoutCancel(ctx), snapshot, loc)

	// The result notice goes out while still Submitting so a following
	// submit's loading notice always lands after it.
	switch res.Outcome {
	case alert.OutcomeSent:
		s.publish(ctx, model.NoticeSuccess, MsgSent)
	case alert.OutcomeNoRecipients:
		s.publish(ctx, model.NoticeError, MsgNoRecipients)
	default:
		s.publish(ctx, model.NoticeError, MsgFailed)
	}

	s.mu.Lock()
	s.state = StateReady
	s.lastOutcome = res.Outcome
	s.mu.Unlock()

	return res, nil
}

// Reload drops any cached copy of the accident and queries the provider again
func (s *Session) Reload(ctx context.Context) error {
	if inv, ok := s.deps.Provider.(accident.Invalidator); ok {
		inv.Invalidate(s.accidentID)
	}
	return s.Load(ctx)
}

// Notice returns the latest notice of this session
func (s *Session) Notice() *model.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice == nil {
		return nil
	}
	n := *s.notice
	return &n
}

// MapMarker returns the map widget payload, or nil when the accident is not
// loaded or a coordinate is not a number.
func (s *Session) MapMarker() *model.MapMarker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mapMarker(s.accident)
}

func mapMarker(a *model.Accident) *model.MapMarker {
	if a == nil {
		return nil
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(string(a.Latitude)), 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(string(a.Longitude)), 64)
	if err != nil {
		return nil
	}
	return &model.MapMarker{Latitude: lat, Longitude: lng, Address: a.Address}
}

// Snapshot is the JSON view of a session
type Snapshot struct {
	SessionID   string                    `json:"sessionId"`
	AccidentID  string                    `json:"accidentId"`
	State       State                     `json:"state"`
	Accident    *model.Accident           `json:"accident,omitempty"`
	Contacts    []model.RescueTeamContact `json:"contacts"`
	AllSelected bool                      `json:"allSelected"`
	CanSubmit   bool                      `json:"canSubmit"`
	MapMarker   *model.MapMarker          `json:"mapMarker,omitempty"`
	MapLink     string                    `json:"mapLink,omitempty"`
	Notice      *model.Notice             `json:"notice,omitempty"`
	LastOutcome alert.Outcome             `json:"lastOutcome,omitempty"`
}

// View returns a consistent snapshot of the session
func (s *Session) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID:   s.id,
		AccidentID:  s.accidentID,
		State:       s.state,
		Accident:    s.accident,
		Contacts:    s.selection.Snapshot(),
		AllSelected: s.selection.AllSelected(),
		CanSubmit:   s.state == StateReady && s.accident != nil,
		MapMarker:   mapMarker(s.accident),
		LastOutcome: s.lastOutcome,
	}
	if s.accident != nil {
		snap.MapLink = alert.MapLink(s.accident.Location())
	}
	if s.notice != nil {
		n := *s.notice
		snap.Notice = &n
	}
	return snap
}

// publish records a notice locally and forwards it to the notice channel.
// Channel failures are logged only.
func (s *Session) publish(ctx context.Context, level model.NoticeLevel, msg string) {
	n := model.Notice{
		SessionID: s.id,
		Level:     level,
		Message:   msg,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.notice = &n
	s.mu.Unlock()

	if s.deps.Notices == nil {
		return
	}
	if err := s.deps.Notices.Publish(context.WithoutCancel(ctx), n); err != nil {
		s.log.Warn().Err(err).Str("level", string(level)).Msg("failed to publish notice")
	}
}
