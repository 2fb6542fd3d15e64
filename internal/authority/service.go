// Package authority is the reference implementation of the remote prize
// authority: the source of truth for participant identity, the one spin per
// participant and the assigned outcome.
package authority

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/google/logger"
	"github.com/google/uuid"

	"prizewheel/internal/models"
	"prizewheel/internal/prize"
)

var (
	// ErrAlreadySpun means the participant already used their one spin.
	ErrAlreadySpun = errors.New("participant has already spun")
	// ErrUnknownParticipant means the spin request named an identifier the
	// authority never issued.
	ErrUnknownParticipant = errors.New("unknown participant")
)

// Prize is one configured outcome with its draw weight.
type Prize struct {
	Key    string
	Label  string
	Weight int
}

// DefaultPrizes is the promotion's wheel. Weights are server-side only and
// never exposed through the public configuration endpoint.
var DefaultPrizes = []Prize{
	{Key: "LIP_FILLER_1ML", Label: "Lip Filler 1ml", Weight: 1},
	{Key: "BOTOX_FOREHEAD", Label: "Forehead Botox", Weight: 1},
	{Key: "CHEEKS_FILLERS_2ML", Label: "Cheek Fillers 2ml", Weight: 1},
	{Key: "DISCOUNT_20", Label: "20% Off", Weight: 4},
	{Key: "DISCOUNT_10", Label: "10% Off", Weight: 8},
	{Key: "LASER_FULL_BODY", Label: "Full Body Laser", Weight: 1},
	{Key: "FACE_LASER_CARBON", Label: "Carbon Laser Facial", Weight: 2},
	{Key: "TRY_AGAIN", Label: "Try Again", Weight: 12},
}

type participant struct {
	record models.ParticipantRecord
}

// Service manages participants and assigns outcomes.
type Service struct {
	mu      sync.Mutex
	prizes  []Prize
	byEmail map[string]*participant
	byID    map[string]*participant
}

// NewService creates an authority over the given prize table.
func NewService(prizes []Prize) *Service {
	if len(prizes) == 0 {
		prizes = DefaultPrizes
	}
	return &Service{
		prizes:  prizes,
		byEmail: make(map[string]*participant),
		byID:    make(map[string]*participant),
	}
}

// Config returns the public segment layout, in prize-table order.
func (s *Service) Config() []models.WheelSegment {
	segments := make([]models.WheelSegment, 0, len(s.prizes))
	for _, p := range s.prizes {
		segments = append(segments, models.WheelSegment{Key: p.Key, Label: p.Label})
	}
	return segments
}

// Register creates a participant, or recognizes a returning one by email
// and replays their identifier and spin status.
func (s *Service) Register(form models.RegistrationForm) *models.RegistrationResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byEmail[form.Email]; ok {
		resp := &models.RegistrationResponse{
			ParticipantID: existing.record.ParticipantID,
			HasSpun:       existing.record.HasSpun,
			Message:       "Welcome back!",
		}
		if existing.record.HasSpun {
			winner := existing.record.IsWinner
			resp.IsWinner = &winner
			resp.Result = existing.record.Result
		}
		return resp
	}

	p := &participant{record: models.ParticipantRecord{
		ParticipantID: uuid.NewString(),
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		Email:         form.Email,
		Phone:         form.Phone,
	}}
	s.byEmail[form.Email] = p
	s.byID[p.record.ParticipantID] = p
	logger.Infof("registered participant %s", p.record.ParticipantID)

	return &models.RegistrationResponse{
		ParticipantID: p.record.ParticipantID,
		Message:       "Registration successful! You can now spin the wheel.",
	}
}

// Spin assigns the participant's one outcome. A second call fails with
// ErrAlreadySpun.
func (s *Service) Spin(participantID string) (*models.SpinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[participantID]
	if !ok {
		return nil, ErrUnknownParticipant
	}
	if p.record.HasSpun {
		return nil, ErrAlreadySpun
	}

	picked := s.pick()
	result := &models.SpinResult{
		Key:      picked.Key,
		Label:    picked.Label,
		IsWinner: prize.IsWinningKey(picked.Key),
	}
	p.record.HasSpun = true
	p.record.IsWinner = result.IsWinner
	p.record.Result = result
	logger.Infof("participant %s spun %s (winner=%t)", participantID, result.Key, result.IsWinner)
	return result, nil
}

// pick draws a prize proportionally to its weight.
func (s *Service) pick() Prize {
	total := 0
	for _, p := range s.prizes {
		total += p.Weight
	}
	n := rand.Intn(total)
	for _, p := range s.prizes {
		n -= p.Weight
		if n < 0 {
			return p
		}
	}
	return s.prizes[len(s.prizes)-1]
}
