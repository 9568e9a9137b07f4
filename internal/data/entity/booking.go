package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled
}

type Booking struct {
	Base
	PackageID  uuid.UUID     `db:"package_id"`
	UserID     uuid.UUID     `db:"user_id"`
	Travelers  int           `db:"travelers"`
	TotalPrice int64         `db:"total_price"` // final price x travelers when booked
	Status     BookingStatus `db:"status"`
}

// BookingDetail is a booking joined with the current state of its package.
// Package is nil when the package has since been deleted.
type BookingDetail struct {
	Booking
	Package *PackageSummary
}
