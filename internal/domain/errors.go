package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDuration    = errors.New("end time must be after start time")
	ErrTimeConflict       = errors.New("vehicle is already booked for this time")
	ErrVehicleUnavailable = errors.New("vehicle is not available for booking")
	ErrMinimumDuration    = errors.New("booking is shorter than the minimum rental duration")
	ErrContractValidation = errors.New("invalid contract")
	ErrPlateFormat        = errors.New("plate number must look like '12 A 345 BC'")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
)

// TimeConflictError lists the bookings that block a requested interval.
type TimeConflictError struct {
	VehicleID  int32
	BookingIDs []int32
}

func (e *TimeConflictError) Error() string {
	ids := make([]string, len(e.BookingIDs))
	for i, id := range e.BookingIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%s (vehicle %d, bookings %s)", ErrTimeConflict, e.VehicleID, strings.Join(ids, ","))
}

func (e *TimeConflictError) Unwrap() error {
	return ErrTimeConflict
}
