package service

import (
	"careline/internal/complaint/models"
	"careline/internal/identity"
)

// GeneralScope is the visibility a caller gets on the general listing.
// Administrators see everything; everyone else sees nothing there and must
// use the personal listing instead.
func GeneralScope(caller identity.Caller) models.Scope {
	if caller.IsAdmin() {
		return models.AllScope()
	}
	return models.NoneScope()
}

// PersonalScope restricts a listing to complaints the caller submitted.
// Administrators get the same restriction; the personal listing is personal
// for everyone.
func PersonalScope(caller identity.Caller) models.Scope {
	return models.OwnScope(caller.EmployeeID)
}
