package models

import "strings"

// WheelSegment is one labeled slice of the wheel. The order of segments in
// the configuration is what ties a prize key to a physical wheel position.
type WheelSegment struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// WheelConfig is the static slice layout, fetched once per session.
type WheelConfig struct {
	Segments []WheelSegment `json:"segments"`
}

// SpinResult is the authoritative outcome of a spin as assigned by the
// remote authority. IsWinner is always recomputed locally from Key before
// the result is stored or shown; a remote flag that contradicts the key is
// never trusted.
type SpinResult struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	IsWinner bool   `json:"isWinner"`
}

// ParticipantRecord holds identity and play status for one visitor. It is
// the only durable state the session keeps; once HasSpun is true it never
// reverts, and Result is never overwritten without a full reset.
type ParticipantRecord struct {
	ParticipantID string      `json:"participantId"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	HasSpun       bool        `json:"hasSpun"`
	IsWinner      bool        `json:"isWinner"`
	Result        *SpinResult `json:"result,omitempty"`
}

// RegistrationForm carries the four validated identity fields submitted by
// a visitor.
type RegistrationForm struct {
	FirstName string `json:"firstName" binding:"required" validate:"required,min=2,max=64"`
	LastName  string `json:"lastName" binding:"required" validate:"required,min=2,max=64"`
	Email     string `json:"email" binding:"required" validate:"required,email"`
	Phone     string `json:"phone" binding:"required" validate:"required,e164"`
}

// Normalize trims and collapses whitespace in names and lowercases the
// email address before the form is validated or submitted.
func (f *RegistrationForm) Normalize() {
	f.FirstName = strings.Join(strings.Fields(f.FirstName), " ")
	f.LastName = strings.Join(strings.Fields(f.LastName), " ")
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
}

// RegistrationResponse is the authority's answer to a registration. A
// re-registering participant gets their existing identifier back together
// with an authoritative HasSpun and, when available, the prior result.
type RegistrationResponse struct {
	ParticipantID string      `json:"participantId"`
	HasSpun       bool        `json:"hasSpun"`
	IsWinner      *bool       `json:"isWinner,omitempty"`
	Result        *SpinResult `json:"result,omitempty"`
	Message       string      `json:"message,omitempty"`
}

// SpinRequest asks the authority to assign (or confirm) an outcome.
type SpinRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

// SpinResponse carries the assigned outcome back to the caller.
type SpinResponse struct {
	Result  SpinResult `json:"result"`
	HasSpun bool       `json:"hasSpun"`
}

// ErrorEnvelope is the generic wire error shape. Code "ALREADY_SPUN" on a
// 409 is the one error callers treat specially.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	HasSpun bool   `json:"hasSpun,omitempty"`
	Details []any  `json:"details,omitempty"`
}

// CodeAlreadySpun marks the conflict response meaning the participant has
// already used their one spin.
const CodeAlreadySpun = "ALREADY_SPUN"
