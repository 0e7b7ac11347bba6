package authz

import (
	"fmt"
	"slices"
)

// View identifies a screen of the back office.
type View string

// Public views.
const (
	ViewLogin          View = "login"
	ViewRegister       View = "register"
	ViewForgotPassword View = "forgot-password"
)

// Admin-tier views.
const (
	ViewDashboard View = "dashboard"
	ViewProducts  View = "products"
	ViewOrders    View = "orders"
	ViewServices  View = "services"
	ViewBookings  View = "bookings"
	ViewGallery   View = "gallery"
	ViewCustomers View = "customers"
	ViewReports   View = "reports"
	ViewSettings  View = "settings"
	ViewProfile   View = "profile"
)

// Super-admin-only views.
const (
	ViewAdmins    View = "admins"
	ViewUserRoles View = "user-roles"
	ViewAuditLogs View = "audit-logs"
)

var publicViews = []View{ViewLogin, ViewRegister, ViewForgotPassword}

var adminNavigation = []View{
	ViewDashboard,
	ViewProducts,
	ViewOrders,
	ViewServices,
	ViewBookings,
	ViewGallery,
	ViewCustomers,
	ViewReports,
	ViewSettings,
	ViewProfile,
}

var superAdminNavigation = append(slices.Clone(adminNavigation),
	ViewAdmins,
	ViewUserRoles,
	ViewAuditLogs,
)

// IsPublic reports whether v can be opened without a session.
func IsPublic(v View) bool {
	return slices.Contains(publicViews, v)
}

// Capabilities are the coarse-grained switches of a role.
type Capabilities struct {
	ManageAdmins   bool `json:"manageAdmins"`
	ManageUsers    bool `json:"manageUsers"`
	ManageBookings bool `json:"manageBookings"`
	ManageServices bool `json:"manageServices"`
	AccessSettings bool `json:"accessSettings"`
	ViewReports    bool `json:"viewReports"`
	ViewAuditLogs  bool `json:"viewAuditLogs"`
}

// Profile is the permission bundle of one role.
type Profile struct {
	Role Role `json:"role"`
	// Home is where the role lands after sign-in and after a denied view.
	Home            View         `json:"home"`
	Navigation      []View       `json:"navigation"`
	AssignableRoles []Role       `json:"assignableRoles"`
	Capabilities    Capabilities `json:"capabilities"`
}

// profiles is fixed for the life of the process. It has one entry per Role.
var profiles = map[Role]Profile{
	RoleSuperAdmin: {
		Role:            RoleSuperAdmin,
		Home:            ViewDashboard,
		Navigation:      superAdminNavigation,
		AssignableRoles: []Role{RoleAdmin, RoleUser},
		Capabilities: Capabilities{
			ManageAdmins:   true,
			ManageUsers:    true,
			ManageBookings: true,
			ManageServices: true,
			AccessSettings: true,
			ViewReports:    true,
			ViewAuditLogs:  true,
		},
	},
	RoleAdmin: {
		Role:            RoleAdmin,
		Home:            ViewDashboard,
		Navigation:      adminNavigation,
		AssignableRoles: []Role{RoleUser},
		Capabilities: Capabilities{
			ManageUsers:    true,
			ManageBookings: true,
			ManageServices: true,
			AccessSettings: true,
			ViewReports:    true,
		},
	},
	RoleUser: {
		Role:            RoleUser,
		Home:            ViewLogin,
		Navigation:      []View{},
		AssignableRoles: []Role{},
	},
}

// ProfileFor returns the profile of role. The slices in the result are
// copies, so callers cannot alter the table. Passing a Role that is not one
// of the defined constants is a programming error and panics.
func ProfileFor(role Role) Profile {
	p, ok := profiles[role]
	if !ok {
		panic(fmt.Sprintf("authz: no permission profile for role %q", role))
	}
	p.Navigation = slices.Clone(p.Navigation)
	p.AssignableRoles = slices.Clone(p.AssignableRoles)
	return p
}

// Allows reports whether v is in the profile's navigation.
func (p Profile) Allows(v View) bool {
	return slices.Contains(p.Navigation, v)
}

// CanAssign reports whether accounts created by this role may be given r.
func (p Profile) CanAssign(r Role) bool {
	return slices.Contains(p.AssignableRoles, r)
}

// KnownView reports whether v is a public view or in any role's navigation.
func KnownView(v View) bool {
	return IsPublic(v) || slices.Contains(superAdminNavigation, v)
}

// Title returns a display title for v.
func (v View) Title() string {
	if title, ok := viewTitles[v]; ok {
		return title
	}
	return string(v)
}

var viewTitles = map[View]string{
	ViewLogin:          "Login",
	ViewRegister:       "Register",
	ViewForgotPassword: "Forgot Password",
	ViewDashboard:      "Dashboard",
	ViewProducts:       "Products",
	ViewOrders:         "Orders",
	ViewServices:       "Services",
	ViewBookings:       "Bookings",
	ViewGallery:        "Gallery",
	ViewCustomers:      "Customers",
	ViewReports:        "Reports",
	ViewSettings:       "Settings",
	ViewProfile:        "Profile",
	ViewAdmins:         "Admins",
	ViewUserRoles:      "User Roles",
	ViewAuditLogs:      "Audit Logs",
}
