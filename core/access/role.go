package access

import "github.com/pkg/errors"

// Role is one of the closed set of actor kinds known to the application.
// Anything outside this set is rejected at parse time; no other role value
// can reach the policy or the gate.
type Role string

const (
	RoleSystemAdmin Role = "system_admin"
	RoleSchoolAdmin Role = "school_admin"
	RolePrincipal   Role = "principal"
	RoleTeacher     Role = "teacher"
	RoleStudent     Role = "student"
	RoleParent      Role = "parent"
)

var (
	allRoles = []Role{
		RoleSystemAdmin,
		RoleSchoolAdmin,
		RolePrincipal,
		RoleTeacher,
		RoleStudent,
		RoleParent,
	}

	roleNames = map[Role]string{
		RoleSystemAdmin: "System Admin",
		RoleSchoolAdmin: "School Admin",
		RolePrincipal:   "Principal",
		RoleTeacher:     "Teacher",
		RoleStudent:     "Student",
		RoleParent:      "Parent",
	}

	// rolePriorities rank roles for "may not grant above own role" checks.
	rolePriorities = map[Role]int{
		RoleSystemAdmin: 60,
		RoleSchoolAdmin: 50,
		RolePrincipal:   40,
		RoleTeacher:     30,
		RoleStudent:     20,
		RoleParent:      10,
	}
)

// Roles returns all known roles, in priority order (highest first).
func Roles() []Role {
	all := make([]Role, len(allRoles))
	copy(all, allRoles)
	return all
}

// ParseRole maps a raw string onto the role enumeration.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", errors.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) String() string { return string(r) }

// Name returns the human-readable role name.
func (r Role) Name() string { return roleNames[r] }

// Priority ranks the role; unknown roles rank lowest.
func (r Role) Priority() int { return rolePriorities[r] }

// RequiresSchool reports whether the role is scoped to a single school.
// Only system admins operate across schools.
func (r Role) RequiresSchool() bool { return r != RoleSystemAdmin }
