package authz

import "smsportal/internal/models"

// CanManageAccounts reports whether acc may list, approve and reject accounts.
func CanManageAccounts(acc *models.Account) bool {
	return acc != nil && acc.IsActive && acc.Role == models.RoleAdmin
}

// CanReject additionally forbids an admin from deleting its own account.
func CanReject(actor *models.Account, targetID int) bool {
	return CanManageAccounts(actor) && actor.ID != targetID
}

// CanDispatch reports whether acc may send SMS, place calls and run lookups.
// A sender phone number is checked separately by the messaging service.
func CanDispatch(acc *models.Account) bool {
	return acc != nil && acc.IsActive
}
