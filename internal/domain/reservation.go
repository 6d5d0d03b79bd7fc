package domain

import "fmt"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

// Booking states
const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

// NewBookingStatus creates a new BookingStatus with validation
func NewBookingStatus(value string) (BookingStatus, error) {
	s := BookingStatus(value)
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Validate checks if the status is valid
func (s BookingStatus) Validate() error {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingCancelled:
		return nil
	default:
		return fmt.Errorf("invalid booking status %q: must be pending, approved, rejected, or cancelled", string(s))
	}
}

// IsCancellable reports whether a user may still cancel or modify the booking.
func (s BookingStatus) IsCancellable() bool {
	return s == BookingPending
}

// String returns the string representation
func (s BookingStatus) String() string {
	return string(s)
}

// Station is a charging station.
type Station struct {
	ID             ID     `json:"station_id" yaml:"station_id"`
	Name           string `json:"station_name" yaml:"station_name"`
	Location       string `json:"location" yaml:"location"`
	TotalSlots     int    `json:"total_slots" yaml:"total_slots"`
	AvailableSlots int    `json:"available_slots" yaml:"available_slots"`
	ChargingType   string `json:"charging_type" yaml:"charging_type"`
	Status         string `json:"station_status" yaml:"station_status"`
}

// Slot is a bookable connector at a station.
type Slot struct {
	ID          ID     `json:"slot_id" yaml:"slot_id"`
	StationID   ID     `json:"station_id" yaml:"station_id"`
	StationName string `json:"station_name,omitempty" yaml:"station_name,omitempty"`
	Number      int    `json:"slot_number" yaml:"slot_number"`
	Status      string `json:"slot_status" yaml:"slot_status"`
}

// IsAvailable reports whether the slot can be booked.
func (s Slot) IsAvailable() bool {
	return s.Status == "available"
}

// Booking is a reservation of a slot for a time window.
type Booking struct {
	ID            ID            `json:"booking_id" yaml:"booking_id"`
	SlotID        ID            `json:"slot_id" yaml:"slot_id"`
	SlotNumber    int           `json:"slot_number,omitempty" yaml:"slot_number,omitempty"`
	StationID     ID            `json:"station_id" yaml:"station_id"`
	StationName   string        `json:"station_name,omitempty" yaml:"station_name,omitempty"`
	UserName      string        `json:"user_name,omitempty" yaml:"user_name,omitempty"`
	Date          string        `json:"booking_date" yaml:"booking_date"`
	StartTime     string        `json:"start_time" yaml:"start_time"`
	EndTime       string        `json:"end_time" yaml:"end_time"`
	Status        BookingStatus `json:"booking_status" yaml:"booking_status"`
	PaymentStatus string        `json:"payment_status,omitempty" yaml:"payment_status,omitempty"`
}

// BookingRequest is the payload for creating or updating a booking.
type BookingRequest struct {
	SlotID    ID     `json:"slot_id"`
	StationID ID     `json:"station_id"`
	Date      string `json:"booking_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// StationInput is the payload for creating or updating a station.
type StationInput struct {
	Name         string `json:"station_name"`
	Location     string `json:"location"`
	TotalSlots   int    `json:"total_slots"`
	ChargingType string `json:"charging_type"`
	Status       string `json:"station_status"`
}

// SlotInput is the payload for creating or updating a slot.
type SlotInput struct {
	StationID ID     `json:"station_id"`
	Number    int    `json:"slot_number"`
	Status    string `json:"slot_status"`
}

// UserStats summarises a user's bookings.
type UserStats struct {
	TotalBookings int `json:"total_bookings" yaml:"total_bookings"`
	Approved      int `json:"approved" yaml:"approved"`
	Pending       int `json:"pending" yaml:"pending"`
	Rejected      int `json:"rejected" yaml:"rejected"`
	Cancelled     int `json:"cancelled" yaml:"cancelled"`
}

// Account is a user record as listed to administrators.
type Account struct {
	ID            ID     `json:"user_id" yaml:"user_id"`
	Name          string `json:"name" yaml:"name"`
	Email         string `json:"email" yaml:"email"`
	PhoneNumber   string `json:"phone_number,omitempty" yaml:"phone_number,omitempty"`
	VehicleNumber string `json:"vehicle_number,omitempty" yaml:"vehicle_number,omitempty"`
	VehicleType   string `json:"vehicle_type,omitempty" yaml:"vehicle_type,omitempty"`
	Blocked       Flag   `json:"is_blocked" yaml:"is_blocked"`
	Verified      Flag   `json:"is_verified" yaml:"is_verified"`
}
