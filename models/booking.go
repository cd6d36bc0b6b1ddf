package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle stage of a booking.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// PaymentStatus is the billing state of a booking. It is tracked independently
// of BookingStatus: a booking can complete unpaid and a pending booking can be
// marked paid. Whether that should stay true is a product decision, not one
// this model takes.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// statusTransitions is the legal status graph. completed and cancelled are
// terminal and have no outgoing edges.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// ParseBookingStatus converts a raw string into a BookingStatus, rejecting unknown values.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return BookingStatus(s), nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// ParsePaymentStatus converts a raw string into a PaymentStatus, rejecting unknown values.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

// Terminal reports whether the status has no outgoing transitions.
func (s BookingStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0
}

// CanTransitionTo reports whether target is reachable from s in one step,
// ignoring who is asking. Actor rules live in ValidateTransition.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s. Callers building
// status-change controls should offer exactly this set.
func (s BookingStatus) NextStatuses() []BookingStatus {
	next := statusTransitions[s]
	out := make([]BookingStatus, len(next))
	copy(out, next)
	return out
}

// LifecycleError is a booking lifecycle rule violation
type LifecycleError struct {
	Code    string
	Message string
}

func (e *LifecycleError) Error() string {
	return e.Message
}

// MinRating and MaxRating bound the customer rating scale.
const (
	MinRating = 1
	MaxRating = 5
)

// Booking represents a scheduled service engagement between a customer and a partner
type Booking struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	BookingNumber string        `gorm:"uniqueIndex;not null" json:"booking_number"`
	Status        BookingStatus `gorm:"not null;default:'pending';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"not null;default:'pending'" json:"payment_status"`
	PaymentMethod string        `json:"payment_method"` // descriptive label, e.g. "online", "cash"
	Amount        float64       `gorm:"not null;check:amount >= 0" json:"amount"`

	// Service display fields are copied from the service at creation so later
	// catalog edits do not rewrite booking history.
	ServiceID    uint    `gorm:"not null;index" json:"service_id"`
	ServiceName  string  `gorm:"not null" json:"service_name"`
	ServiceImage string  `json:"service_image"`
	Service      Service `gorm:"foreignKey:ServiceID" json:"-"`

	UserID    uint  `gorm:"not null;index" json:"user_id"`
	User      User  `gorm:"foreignKey:UserID" json:"user"`
	PartnerID *uint `gorm:"index" json:"partner_id"` // nullable, set when a partner takes the booking
	Partner   *User `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`

	BookedDate    time.Time `gorm:"not null" json:"booked_date"`
	ScheduledTime string    `gorm:"size:10" json:"scheduled_time"` // e.g. "14:00"
	Notes         string    `json:"notes"`

	Rating *int    `gorm:"check:rating >= 1 AND rating <= 5" json:"rating"`
	Review *string `json:"review"`

	// Gateway order id for online payments, matched by the payment
	// verification callback.
	PaymentOrderID *string `gorm:"index" json:"payment_order_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// NewBookingNumber generates a human-readable display code, e.g. "HZ-3F9A21C4".
func NewBookingNumber() string {
	id := uuid.NewString()
	return "HZ-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}

// ScheduledAt combines the booked date with the scheduled time-of-day.
// A malformed time falls back to the start of the booked date.
func (b *Booking) ScheduledAt() time.Time {
	day := b.BookedDate
	t, err := time.Parse("15:04", b.ScheduledTime)
	if err != nil {
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
}

// ValidateTransition checks whether actor may move the booking to target.
// A request for the current status is an idempotent no-op and passes.
//
// Customers may only cancel their own pending bookings, and only up to
// cancelCutoff before the scheduled start. Partners, admins and superadmins
// may walk any edge of the status graph; the superadmin override in the
// handlers is about ownership, not extra edges, since every non-terminal
// status already has a cancel edge.
func (b *Booking) ValidateTransition(target BookingStatus, actor Role, now time.Time, cancelCutoff time.Duration) error {
	if _, err := ParseBookingStatus(string(target)); err != nil {
		return &LifecycleError{Code: "INVALID_STATUS", Message: err.Error()}
	}

	if b.Status == target {
		return nil
	}

	if !b.Status.CanTransitionTo(target) {
		return &LifecycleError{
			Code:    "INVALID_TRANSITION",
			Message: fmt.Sprintf("cannot change status from %q to %q", b.Status, target),
		}
	}

	if actor == RoleCustomer {
		if target != StatusCancelled || b.Status != StatusPending {
			return &LifecycleError{
				Code:    "INVALID_TRANSITION",
				Message: "customers may only cancel pending bookings",
			}
		}
		if now.Add(cancelCutoff).After(b.ScheduledAt()) {
			return &LifecycleError{
				Code:    "CANCEL_WINDOW_CLOSED",
				Message: fmt.Sprintf("bookings can be cancelled up to %s before the scheduled time", cancelCutoff),
			}
		}
	}

	return nil
}

// ValidateRating checks whether the booking may receive the given rating.
// Ratings attach exactly once, only to completed bookings, and must be an
// integer from 1 to 5.
func (b *Booking) ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return &LifecycleError{
			Code:    "INVALID_RATING",
			Message: fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating),
		}
	}
	if b.Status != StatusCompleted {
		return &LifecycleError{
			Code:    "INVALID_RATING",
			Message: "only completed bookings can be rated",
		}
	}
	if b.Rating != nil {
		return &LifecycleError{
			Code:    "INVALID_RATING",
			Message: "this booking has already been rated",
		}
	}
	return nil
}
