// Package services owns the spin session state machine: it sequences
// disclaimer acceptance, registration, the single authoritative spin,
// animation playback and result disclosure, persisting the participant
// record after every committing transition so a reload recovers the
// session.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/logger"

	"prizewheel/internal/gateway"
	"prizewheel/internal/metrics"
	"prizewheel/internal/models"
	"prizewheel/internal/prize"
	"prizewheel/internal/storage"
	"prizewheel/internal/wheel"
)

// Gateway is the remote authority as the session sees it. It is the single
// point of truth for participant identifiers and prize outcomes.
type Gateway interface {
	Register(ctx context.Context, form models.RegistrationForm) (*models.RegistrationResponse, error)
	Spin(ctx context.Context, participantID string) (*models.SpinResult, error)
	WheelConfig(ctx context.Context) ([]models.WheelSegment, error)
}

var (
	// ErrInvalidPhase is returned for an intent the current phase does not
	// accept.
	ErrInvalidPhase = errors.New("intent not valid in current phase")
	// ErrConfigUnavailable is returned for every intent while the wheel
	// configuration could not be loaded; only a reload recovers.
	ErrConfigUnavailable = errors.New("wheel configuration unavailable")
	// ErrValidation marks a local form rejection that never reached the
	// network.
	ErrValidation = errors.New("invalid registration form")
)

// User-facing failure messages surfaced at the presentation boundary.
const (
	msgWheelConfigError  = "Unable to load wheel configuration. Please refresh the page."
	msgRegistrationError = "Registration failed. Please try again."
	msgSpinError         = "Spin failed. Please try again."
	msgValidationError   = "Please check your input and try again."
)

// Session is one visitor's spin session. Events are processed one at a
// time; the participant record has no other writer.
type Session struct {
	store   storage.SessionStore
	gateway Gateway
	driver  wheel.Driver

	validate *validator.Validate

	mu       sync.Mutex
	phase    Phase
	record   *models.ParticipantRecord
	segments []models.WheelSegment
	lastErr  string
	// attempt numbers spin attempts so a stale or duplicate animation
	// callback cannot re-trigger a reveal.
	attempt uint64
}

// Snapshot is the read model the presentation layer renders from.
type Snapshot struct {
	Phase    Phase                     `json:"phase"`
	Record   *models.ParticipantRecord `json:"record,omitempty"`
	Segments []models.WheelSegment     `json:"segments,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

// NewSession builds a session: it fetches the wheel configuration, recovers
// any persisted participant record and computes the initial phase. A fresh
// visitor starts at the disclaimer; a returning one lands directly on the
// wheel or the lock-out page depending on the persisted HasSpun flag.
func NewSession(ctx context.Context, store storage.SessionStore, gw Gateway, driver wheel.Driver) *Session {
	s := &Session{
		store:    store,
		gateway:  gw,
		driver:   driver,
		validate: validator.New(),
	}

	segments, err := gw.WheelConfig(ctx)
	if err != nil {
		logger.Errorf("wheel configuration fetch failed: %v", err)
		metrics.GatewayFailuresTotal.WithLabelValues("wheel_config").Inc()
		s.phase = PhaseConfigError
		s.lastErr = msgWheelConfigError
		return s
	}
	s.segments = segments

	if record, ok := store.Load(); ok {
		s.record = record
		if record.HasSpun {
			s.phase = PhaseAlreadyPlayed
		} else {
			s.phase = PhaseReadyToSpin
		}
		return s
	}
	s.phase = PhaseDisclaimer
	return s
}

// Snapshot returns the current phase, a copy of the participant record, the
// segment layout and the last surfaced error.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Phase:    s.phase,
		Segments: s.segments,
		Error:    s.lastErr,
	}
	if s.record != nil {
		record := *s.record
		if s.record.Result != nil {
			result := *s.record.Result
			record.Result = &result
		}
		snap.Record = &record
	}
	return snap
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// AcceptDisclaimer moves a fresh visitor past the disclaimer.
func (s *Session) AcceptDisclaimer() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseConfigError {
		return ErrConfigUnavailable
	}
	if s.phase != PhaseDisclaimer {
		return ErrInvalidPhase
	}
	s.phase = PhaseHome
	return nil
}

// Start routes from the home page: registration for an unknown visitor, the
// wheel for a registered one, the lock-out page for one who already spun.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseConfigError {
		return ErrConfigUnavailable
	}
	if s.phase != PhaseHome {
		return ErrInvalidPhase
	}
	switch {
	case s.record == nil:
		s.phase = PhaseRegistration
	case s.record.HasSpun:
		s.phase = PhaseAlreadyPlayed
	default:
		s.phase = PhaseReadyToSpin
	}
	return nil
}

// SubmitRegistration validates the form locally, submits it to the
// authority and on success creates and persists the participant record. A
// gateway failure leaves the session in the registration phase so the
// visitor can retry with corrected input.
func (s *Session) SubmitRegistration(ctx context.Context, form models.RegistrationForm) error {
	s.mu.Lock()
	if s.phase == PhaseConfigError {
		s.mu.Unlock()
		return ErrConfigUnavailable
	}
	if s.phase != PhaseRegistration {
		s.mu.Unlock()
		return ErrInvalidPhase
	}
	s.mu.Unlock()

	form.Normalize()
	if err := s.validate.Struct(&form); err != nil {
		s.setError(msgValidationError)
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	resp, err := s.gateway.Register(ctx, form)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logger.Warningf("registration failed: %v", err)
		metrics.GatewayFailuresTotal.WithLabelValues("register").Inc()
		s.lastErr = registrationMessage(err)
		return err
	}

	record := &models.ParticipantRecord{
		ParticipantID: resp.ParticipantID,
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		Email:         form.Email,
		Phone:         form.Phone,
		HasSpun:       resp.HasSpun,
	}
	if resp.Result != nil {
		result := *resp.Result
		result.IsWinner = prize.IsWinningKey(result.Key)
		record.Result = &result
		record.IsWinner = result.IsWinner
	}
	s.record = record
	s.store.Save(record)
	s.lastErr = ""
	metrics.RegistrationsTotal.Inc()

	if record.HasSpun {
		s.phase = PhaseAlreadyPlayed
	} else {
		s.phase = PhaseReadyToSpin
	}
	return nil
}

// RequestSpin performs the one authoritative spin: it fetches the outcome
// from the authority, persists it, then commands the animation toward the
// matching segment. The outcome is withheld from the visitor until the
// animation completes. A request while a spin is already in flight is a
// no-op.
func (s *Session) RequestSpin(ctx context.Context) error {
	s.mu.Lock()
	switch s.phase {
	case PhaseAwaitingResult, PhaseSpinning:
		// At most one outstanding spin per participant.
		s.mu.Unlock()
		return nil
	case PhaseConfigError:
		s.mu.Unlock()
		return ErrConfigUnavailable
	case PhaseReadyToSpin:
	default:
		s.mu.Unlock()
		return ErrInvalidPhase
	}
	if s.record == nil || s.record.HasSpun {
		s.mu.Unlock()
		return ErrInvalidPhase
	}
	participantID := s.record.ParticipantID
	s.phase = PhaseAwaitingResult
	s.lastErr = ""
	s.mu.Unlock()

	result, err := s.gateway.Spin(ctx, participantID)

	s.mu.Lock()
	if err != nil {
		if errors.Is(err, gateway.ErrAlreadySpun) {
			// Reconciliation, not failure: local state was stale.
			logger.Infof("spin conflict for participant %s, reconciling local state", participantID)
			metrics.SpinConflictsTotal.Inc()
			s.record.HasSpun = true
			s.store.Save(s.record)
			s.phase = PhaseAlreadyPlayed
			s.mu.Unlock()
			return nil
		}
		logger.Warningf("spin failed for participant %s: %v", participantID, err)
		metrics.GatewayFailuresTotal.WithLabelValues("spin").Inc()
		s.lastErr = msgSpinError
		s.phase = PhaseReadyToSpin
		s.mu.Unlock()
		return err
	}

	result.IsWinner = prize.IsWinningKey(result.Key)
	s.record.HasSpun = true
	s.record.IsWinner = result.IsWinner
	s.record.Result = result
	s.store.Save(s.record)

	if result.IsWinner {
		metrics.SpinsTotal.WithLabelValues(metrics.OutcomeWin).Inc()
	} else {
		metrics.SpinsTotal.WithLabelValues(metrics.OutcomeLoss).Inc()
	}

	target := s.segmentIndex(result.Key)
	if target == wheel.RandomTarget {
		logger.Warningf("result key %q not in configured segments, landing on a random segment", result.Key)
	}
	s.attempt++
	attempt := s.attempt
	segmentCount := len(s.segments)
	s.phase = PhaseSpinning
	s.mu.Unlock()

	s.driver.Spin(segmentCount, target, func(int) { s.finishSpin(attempt) })
	return nil
}

// finishSpin handles the animation completion callback. Callbacks from a
// superseded attempt or outside the spinning phase are dropped.
func (s *Session) finishSpin(attempt uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if attempt != s.attempt || s.phase != PhaseSpinning {
		return
	}
	s.phase = PhaseResultShown
}

// DismissResult moves from the revealed result to the permanent lock-out
// page.
func (s *Session) DismissResult() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseResultShown {
		return ErrInvalidPhase
	}
	s.phase = PhaseAlreadyPlayed
	return nil
}

// ReturnHome navigates from the lock-out page back to the home page.
func (s *Session) ReturnHome() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseAlreadyPlayed {
		return ErrInvalidPhase
	}
	s.phase = PhaseHome
	return nil
}

// Reset destroys the local session: the persisted record is cleared without
// contacting the authority. It is refused while a spin is in flight.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseConfigError:
		return ErrConfigUnavailable
	case PhaseAwaitingResult, PhaseSpinning:
		return ErrInvalidPhase
	}
	s.store.Clear()
	s.record = nil
	s.lastErr = ""
	s.phase = PhaseHome
	return nil
}

// segmentIndex finds the wheel position of an outcome key, or RandomTarget
// when the backend and the configured segments disagree.
func (s *Session) segmentIndex(key string) int {
	for i, segment := range s.segments {
		if segment.Key == key {
			return i
		}
	}
	return wheel.RandomTarget
}

func (s *Session) setError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = message
}

// registrationMessage picks the message surfaced for a failed registration,
// preferring what the authority said.
func registrationMessage(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return msgRegistrationError
}
