package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/access"
	testutil "github.com/trezcool/shule/tests"
)

func Test_viewApi(t *testing.T) {
	app, usrRepo := setup(t)

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teachr1", "teacher@sch1.example.com", "", access.RoleTeacher, "sch1", true)
	parent := testutil.CreateUser(t, usrRepo, "Parent", "parent1", "parent@sch1.example.com", "", access.RoleParent, "sch1", true)
	schoolAdmin := testutil.CreateUser(t, usrRepo, "Admin", "schadmin", "admin@sch1.example.com", "", access.RoleSchoolAdmin, "sch1", true)

	tests := []httpTest{
		{
			name: "unauthenticated view is denied", path: "/v1/views/teacher_dashboard",
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken),
		},
		{
			name: "unauthenticated root is denied", path: "/v1/views",
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken),
		},
		{
			name: "teacher renders own dashboard", path: "/v1/views/teacher_dashboard", token: getToken(t, teacher),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, ViewResponse{View: "teacher_dashboard", Role: "teacher", SchoolID: "sch1"}),
		},
		{
			name: "teacher denied school admin settings", path: "/v1/views/school_admin_settings", token: getToken(t, teacher),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "parent root lands on parent dashboard", path: "/v1/views", token: getToken(t, parent),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, ViewResponse{View: "parent_dashboard", Role: "parent", SchoolID: "sch1"}),
		},
		{
			name: "school admin root lands on school admin dashboard", path: "/v1/views", token: getToken(t, schoolAdmin),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, ViewResponse{View: "school_admin_dashboard", Role: "school_admin", SchoolID: "sch1"}),
		},
		{
			name: "shared view admits multiple roles", path: "/v1/views/announcements", token: getToken(t, parent),
			wantCode: http.StatusOK,
			wantData: marshallObj(t, ViewResponse{View: "announcements", Role: "parent", SchoolID: "sch1"}),
		},
		{
			name: "unknown view is not routed", path: "/v1/views/secret_lair", token: getToken(t, teacher),
			wantCode: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: tt.wantData}, rec)
		})
	}
}

// A token minted with a role outside the enumeration never yields a session,
// so the gate treats the request as unauthenticated.
func Test_viewApi_unknownRoleToken(t *testing.T) {
	app, usrRepo := setup(t)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teachr1", "teacher@sch1.example.com", "", access.RoleTeacher, "sch1", true)

	claims := GetUserClaims(teacher)
	claims.Role = "superuser"
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/views/teacher_dashboard", token)
	app.ServeHTTP(rec, req)

	checkCodeAndData(t, httpTest{
		wantCode: http.StatusUnauthorized,
		wantData: marshallObj(t, httpErr{Error: "user not authenticated"}),
	}, rec)
}
