package access

// The application's navigable views. Every page the dashboard can mount has
// exactly one entry here and one requirement in DefaultPolicy.
const (
	ViewSystemAdminDashboard View = "system_admin_dashboard"
	ViewSchoolAdminDashboard View = "school_admin_dashboard"
	ViewPrincipalDashboard   View = "principal_dashboard"
	ViewTeacherDashboard     View = "teacher_dashboard"
	ViewStudentDashboard     View = "student_dashboard"
	ViewParentDashboard      View = "parent_dashboard"

	ViewSchoolAdminSettings View = "school_admin_settings"
	ViewUsersAdmin          View = "users_admin"
	ViewStudentsList        View = "students_list"
	ViewClassesList         View = "classes_list"
	ViewFeesOverview        View = "fees_overview"
	ViewAttendance          View = "attendance"
	ViewAnnouncements       View = "announcements"
	ViewTimetable           View = "timetable"
)

// DefaultPolicy is the single, centralized access table for the whole
// application. It replaces per-page role lists: pages only name their View
// and the gate does the rest.
func DefaultPolicy() (*Policy, error) {
	return NewPolicy(
		[]RouteRequirement{
			{View: ViewSystemAdminDashboard, AllowedRoles: []Role{RoleSystemAdmin}},
			{View: ViewSchoolAdminDashboard, AllowedRoles: []Role{RoleSchoolAdmin}},
			{View: ViewPrincipalDashboard, AllowedRoles: []Role{RolePrincipal}},
			{View: ViewTeacherDashboard, AllowedRoles: []Role{RoleTeacher}},
			{View: ViewStudentDashboard, AllowedRoles: []Role{RoleStudent}},
			{View: ViewParentDashboard, AllowedRoles: []Role{RoleParent}},

			{View: ViewSchoolAdminSettings, AllowedRoles: []Role{RoleSchoolAdmin}},
			{View: ViewUsersAdmin, AllowedRoles: []Role{RoleSystemAdmin, RoleSchoolAdmin}},
			{View: ViewStudentsList, AllowedRoles: []Role{RoleSchoolAdmin, RolePrincipal, RoleTeacher}},
			{View: ViewClassesList, AllowedRoles: []Role{RoleSchoolAdmin, RolePrincipal, RoleTeacher}},
			{View: ViewFeesOverview, AllowedRoles: []Role{RoleSchoolAdmin, RolePrincipal, RoleParent}},
			{View: ViewAttendance, AllowedRoles: []Role{RolePrincipal, RoleTeacher, RoleStudent, RoleParent}},
			{View: ViewAnnouncements, AllowedRoles: []Role{RoleSchoolAdmin, RolePrincipal, RoleTeacher, RoleStudent, RoleParent}},
			{View: ViewTimetable, AllowedRoles: []Role{RolePrincipal, RoleTeacher, RoleStudent, RoleParent}},
		},
		map[Role]View{
			RoleSystemAdmin: ViewSystemAdminDashboard,
			RoleSchoolAdmin: ViewSchoolAdminDashboard,
			RolePrincipal:   ViewPrincipalDashboard,
			RoleTeacher:     ViewTeacherDashboard,
			RoleStudent:     ViewStudentDashboard,
			RoleParent:      ViewParentDashboard,
		},
	)
}
