// Package identity models the employees who call the service and the
// credentials that authenticate them. Patients are not callers; they are
// subjects of complaints and live in internal/patient.
package identity

// Role IDs match the Roles relation rows seeded by operations.
const (
	RoleAdmin    int64 = 1
	RoleStandard int64 = 2
)

// Caller is the resolved identity attached to every authenticated request.
type Caller struct {
	EmployeeID int64
	Username   string
	RoleID     int64
	RoleName   string
}

// IsAdmin reports whether the caller has unrestricted visibility. The
// reserved "admin" username keeps bootstrap deployments working before role
// rows are seeded.
func (c Caller) IsAdmin() bool {
	return c.RoleID == RoleAdmin || c.Username == "admin"
}

// Employee is a staff record as stored. PasswordHash is a bcrypt hash and
// never leaves this package.
type Employee struct {
	ID           int64
	Username     string
	FullName     string
	PasswordHash string
	RoleID       int64
	RoleName     string
}
