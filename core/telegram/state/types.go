// Package state tracks per-user conversation sessions for the order
// dialogue. One session per Telegram user, addressed by user id only.
package state

import "time"

// Step identifies a finite-state-machine step of the conversation.
type Step string

const (
	// StepIdle indicates there is no active conversation with the user.
	StepIdle Step = "idle"
	// StepQuantity means an item is selected and the bot waits for a portion count.
	StepQuantity Step = "awaiting_quantity"
	// StepConfirm means the order summary was shown and the bot waits for a decision.
	StepConfirm Step = "awaiting_confirmation"
	// StepBookingWhen means the bot waits for a table booking date/time.
	StepBookingWhen Step = "awaiting_booking_when"
	// StepBookingParty means the bot waits for the booking party size.
	StepBookingParty Step = "awaiting_booking_party"
)

// Draft is the single in-progress, unconfirmed order attached to a session.
// Quantity and Total stay zero until the quantity step completes.
type Draft struct {
	Item      string `json:"item"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Total     int    `json:"total"`
}

// BookingDraft is an in-progress table booking.
type BookingDraft struct {
	When  time.Time `json:"when"`
	Party int       `json:"party"`
}

// Session stores the conversation step and accumulated draft data for a user.
type Session struct {
	Step      Step
	Draft     *Draft
	Booking   *BookingDraft
	UpdatedAt time.Time
}

// Idle reports whether the session has no active conversation.
func (s Session) Idle() bool {
	return s.Step == StepIdle || s.Step == ""
}

// NewIdle returns a fresh session with no draft.
func NewIdle() Session {
	return Session{Step: StepIdle}
}
