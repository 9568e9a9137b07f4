// Package authz holds the single authorization predicate every service calls
// before a privileged operation.
package authz

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

type Operation string

const (
	OpCreatePackage  Operation = "create_package"
	OpEditPackage    Operation = "edit_package"
	OpDeletePackage  Operation = "delete_package"
	OpApprovePackage Operation = "approve_package"
	OpRejectPackage  Operation = "reject_package"
	OpCreateBooking  Operation = "create_booking"
	OpConfirmBooking Operation = "confirm_booking"
	OpCancelBooking  Operation = "cancel_booking"
	OpSubmitReview   Operation = "submit_review"
	OpUploadImage    Operation = "upload_image"
	OpViewDashboard  Operation = "view_dashboard"
)

// Actor is the resolved identity of the caller for one request.
type Actor struct {
	ID        uuid.UUID
	Role      Role
	Name      *string
	AvatarURL *string
}

func (a Actor) IsAdmin() bool  { return a.Role == RoleAdmin }
func (a Actor) IsSeller() bool { return a.Role == RoleSeller }

// CanAct reports whether actor may perform op on a resource owned by
// resourceOwnerID. For booking transitions the owner is the seller of the
// booked package. Pass uuid.Nil when the operation has no owner.
func CanAct(actor Actor, op Operation, resourceOwnerID uuid.UUID) bool {
	if actor.ID == uuid.Nil || !actor.Role.Valid() {
		return false
	}

	switch op {
	case OpCreatePackage:
		return actor.Role == RoleSeller

	case OpEditPackage, OpDeletePackage, OpConfirmBooking, OpCancelBooking:
		if actor.Role == RoleAdmin {
			return true
		}
		return actor.Role == RoleSeller && resourceOwnerID != uuid.Nil && actor.ID == resourceOwnerID

	case OpApprovePackage, OpRejectPackage:
		return actor.Role == RoleAdmin

	case OpCreateBooking:
		return actor.Role == RoleUser

	case OpSubmitReview:
		return actor.Role != RoleSeller

	case OpUploadImage:
		return actor.Role == RoleSeller || actor.Role == RoleAdmin

	case OpViewDashboard:
		// sellers see their own scope, admins the platform
		return actor.Role == RoleSeller || actor.Role == RoleAdmin
	}

	return false
}
