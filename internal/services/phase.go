package services

// Phase is the single active UI phase of a spin session.
type Phase string

const (
	PhaseDisclaimer     Phase = "DISCLAIMER"
	PhaseHome           Phase = "HOME"
	PhaseRegistration   Phase = "REGISTRATION"
	PhaseReadyToSpin    Phase = "READY_TO_SPIN"
	PhaseAwaitingResult Phase = "AWAITING_RESULT"
	PhaseSpinning       Phase = "SPINNING"
	PhaseResultShown    Phase = "RESULT_SHOWN"
	PhaseAlreadyPlayed  Phase = "ALREADY_PLAYED"
	PhaseConfigError    Phase = "CONFIG_ERROR"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}
