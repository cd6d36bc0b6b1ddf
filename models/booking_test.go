package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingTableName(t *testing.T) {
	booking := Booking{}
	assert.Equal(t, "bookings", booking.TableName(), "Table name should be 'bookings'")
}

func TestParseBookingStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    BookingStatus
		wantErr bool
	}{
		{"pending", "pending", StatusPending, false},
		{"confirmed", "confirmed", StatusConfirmed, false},
		{"in-progress", "in-progress", StatusInProgress, false},
		{"completed", "completed", StatusCompleted, false},
		{"cancelled", "cancelled", StatusCancelled, false},
		{"unknown value", "archived", "", true},
		{"empty string", "", "", true},
		{"wrong case", "Pending", "", true},
		{"underscore variant", "in_progress", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBookingStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParsePaymentStatus(t *testing.T) {
	for _, valid := range []string{"pending", "paid", "failed", "refunded"} {
		got, err := ParsePaymentStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, PaymentStatus(valid), got)
	}

	_, err := ParsePaymentStatus("chargeback")
	assert.Error(t, err)
}

// TestStatusTransitionGraph pins the exact shape of the lifecycle graph:
// each status allows precisely the listed targets and nothing else.
func TestStatusTransitionGraph(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled}
	allowed := map[BookingStatus][]BookingStatus{
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusInProgress, StatusCancelled},
		StatusInProgress: {StatusCompleted, StatusCancelled},
		StatusCompleted:  {},
		StatusCancelled:  {},
	}

	for _, from := range all {
		for _, to := range all {
			if from == to {
				continue
			}
			want := false
			for _, target := range allowed[from] {
				if target == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusInProgress.Terminal())
}

func TestNextStatuses(t *testing.T) {
	assert.ElementsMatch(t, []BookingStatus{StatusConfirmed, StatusCancelled}, StatusPending.NextStatuses())
	assert.ElementsMatch(t, []BookingStatus{StatusCompleted, StatusCancelled}, StatusInProgress.NextStatuses())
	assert.Empty(t, StatusCompleted.NextStatuses())
	assert.Empty(t, StatusCancelled.NextStatuses())
}

// tomorrowBooking returns a booking scheduled comfortably in the future so
// window checks do not interfere with graph checks.
func tomorrowBooking(status BookingStatus) *Booking {
	day := time.Now().Add(48 * time.Hour)
	return &Booking{
		Status:        status,
		BookedDate:    day,
		ScheduledTime: "14:00",
	}
}

func TestValidateTransition_StaffWalksAllEdges(t *testing.T) {
	for _, actor := range []Role{RolePartner, RoleAdmin, RoleSuperadmin} {
		booking := tomorrowBooking(StatusPending)
		assert.NoError(t, booking.ValidateTransition(StatusConfirmed, actor, time.Now(), 2*time.Hour))

		booking = tomorrowBooking(StatusConfirmed)
		assert.NoError(t, booking.ValidateTransition(StatusInProgress, actor, time.Now(), 2*time.Hour))

		booking = tomorrowBooking(StatusInProgress)
		assert.NoError(t, booking.ValidateTransition(StatusCompleted, actor, time.Now(), 2*time.Hour))

		booking = tomorrowBooking(StatusConfirmed)
		assert.NoError(t, booking.ValidateTransition(StatusCancelled, actor, time.Now(), 2*time.Hour))
	}
}

func TestValidateTransition_IllegalEdges(t *testing.T) {
	tests := []struct {
		name   string
		from   BookingStatus
		target BookingStatus
	}{
		{"pending cannot skip to in-progress", StatusPending, StatusInProgress},
		{"pending cannot skip to completed", StatusPending, StatusCompleted},
		{"confirmed cannot skip to completed", StatusConfirmed, StatusCompleted},
		{"completed is terminal", StatusCompleted, StatusPending},
		{"completed cannot be cancelled", StatusCompleted, StatusCancelled},
		{"cancelled is terminal", StatusCancelled, StatusPending},
		{"cancelled cannot be revived to confirmed", StatusCancelled, StatusConfirmed},
		{"no going backwards", StatusInProgress, StatusConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := tomorrowBooking(tt.from)
			err := booking.ValidateTransition(tt.target, RoleSuperadmin, time.Now(), 2*time.Hour)

			var lifecycleErr *LifecycleError
			assert.True(t, errors.As(err, &lifecycleErr))
			assert.Equal(t, "INVALID_TRANSITION", lifecycleErr.Code)
		})
	}
}

func TestValidateTransition_SameStatusIsNoOp(t *testing.T) {
	for _, status := range []BookingStatus{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled} {
		booking := tomorrowBooking(status)
		assert.NoError(t, booking.ValidateTransition(status, RoleCustomer, time.Now(), 2*time.Hour),
			"repeating status %s should be a no-op", status)
	}
}

func TestValidateTransition_UnknownTargetRejected(t *testing.T) {
	booking := tomorrowBooking(StatusPending)
	err := booking.ValidateTransition(BookingStatus("archived"), RoleAdmin, time.Now(), 2*time.Hour)

	var lifecycleErr *LifecycleError
	assert.True(t, errors.As(err, &lifecycleErr))
	assert.Equal(t, "INVALID_STATUS", lifecycleErr.Code)
}

func TestValidateTransition_CustomerCanOnlyCancelPending(t *testing.T) {
	tests := []struct {
		name   string
		from   BookingStatus
		target BookingStatus
	}{
		{"customer cannot confirm", StatusPending, StatusConfirmed},
		{"customer cannot start work", StatusConfirmed, StatusInProgress},
		{"customer cannot complete", StatusInProgress, StatusCompleted},
		{"customer cannot cancel confirmed", StatusConfirmed, StatusCancelled},
		{"customer cannot cancel in-progress", StatusInProgress, StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := tomorrowBooking(tt.from)
			err := booking.ValidateTransition(tt.target, RoleCustomer, time.Now(), 2*time.Hour)

			var lifecycleErr *LifecycleError
			assert.True(t, errors.As(err, &lifecycleErr))
			assert.Equal(t, "INVALID_TRANSITION", lifecycleErr.Code)
		})
	}

	booking := tomorrowBooking(StatusPending)
	assert.NoError(t, booking.ValidateTransition(StatusCancelled, RoleCustomer, time.Now(), 2*time.Hour))
}

func TestValidateTransition_CancelWindow(t *testing.T) {
	cutoff := 2 * time.Hour
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	booking := &Booking{
		Status:        StatusPending,
		BookedDate:    day,
		ScheduledTime: "14:00",
	}
	scheduled := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)

	// Well before the window closes
	assert.NoError(t, booking.ValidateTransition(StatusCancelled, RoleCustomer, scheduled.Add(-3*time.Hour), cutoff))

	// One minute inside the window
	err := booking.ValidateTransition(StatusCancelled, RoleCustomer, scheduled.Add(-cutoff).Add(time.Minute), cutoff)
	var lifecycleErr *LifecycleError
	assert.True(t, errors.As(err, &lifecycleErr))
	assert.Equal(t, "CANCEL_WINDOW_CLOSED", lifecycleErr.Code)

	// After the scheduled time has passed entirely
	err = booking.ValidateTransition(StatusCancelled, RoleCustomer, scheduled.Add(time.Hour), cutoff)
	assert.True(t, errors.As(err, &lifecycleErr))
	assert.Equal(t, "CANCEL_WINDOW_CLOSED", lifecycleErr.Code)

	// Staff are not bound by the customer window
	assert.NoError(t, booking.ValidateTransition(StatusCancelled, RoleAdmin, scheduled.Add(-time.Minute), cutoff))
}

func TestValidateTransition_ZeroCutoffAllowsLastMinuteCancel(t *testing.T) {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	booking := &Booking{
		Status:        StatusPending,
		BookedDate:    day,
		ScheduledTime: "14:00",
	}
	scheduled := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)

	assert.NoError(t, booking.ValidateTransition(StatusCancelled, RoleCustomer, scheduled.Add(-time.Minute), 0))
}

func TestValidateRating(t *testing.T) {
	tests := []struct {
		name     string
		status   BookingStatus
		existing *int
		rating   int
		wantErr  bool
	}{
		{"minimum rating on completed", StatusCompleted, nil, 1, false},
		{"maximum rating on completed", StatusCompleted, nil, 5, false},
		{"mid rating on completed", StatusCompleted, nil, 3, false},
		{"zero is below range", StatusCompleted, nil, 0, true},
		{"six is above range", StatusCompleted, nil, 6, true},
		{"negative rating", StatusCompleted, nil, -1, true},
		{"pending cannot be rated", StatusPending, nil, 4, true},
		{"confirmed cannot be rated", StatusConfirmed, nil, 4, true},
		{"in-progress cannot be rated", StatusInProgress, nil, 4, true},
		{"cancelled cannot be rated", StatusCancelled, nil, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := &Booking{Status: tt.status, Rating: tt.existing}
			err := booking.ValidateRating(tt.rating)
			if tt.wantErr {
				var lifecycleErr *LifecycleError
				assert.True(t, errors.As(err, &lifecycleErr))
				assert.Equal(t, "INVALID_RATING", lifecycleErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRating_OneTimeOnly(t *testing.T) {
	existing := 4
	booking := &Booking{Status: StatusCompleted, Rating: &existing}

	err := booking.ValidateRating(5)

	var lifecycleErr *LifecycleError
	assert.True(t, errors.As(err, &lifecycleErr))
	assert.Equal(t, "INVALID_RATING", lifecycleErr.Code)
	assert.Equal(t, 4, *booking.Rating, "original rating should be untouched")
}

func TestNewBookingNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		number := NewBookingNumber()
		assert.Len(t, number, 11)
		assert.Equal(t, "HZ-", number[:3])
		assert.Equal(t, number, strings.ToUpper(number), "booking numbers are upper-case")
		assert.False(t, seen[number], "booking numbers should not repeat")
		seen[number] = true
	}
}

func TestScheduledAt(t *testing.T) {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	booking := &Booking{BookedDate: day, ScheduledTime: "14:30"}
	assert.Equal(t, time.Date(2026, 9, 10, 14, 30, 0, 0, time.UTC), booking.ScheduledAt())

	// Malformed time falls back to start of day
	booking = &Booking{BookedDate: day, ScheduledTime: "2pm"}
	assert.Equal(t, day, booking.ScheduledAt())

	booking = &Booking{BookedDate: day, ScheduledTime: ""}
	assert.Equal(t, day, booking.ScheduledAt())
}
