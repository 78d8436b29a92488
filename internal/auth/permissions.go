package auth

// Permission constants define the permissions shipped with the default catalog.
// Administrators may add more at runtime; these are the ones the code checks.
const (
	// PermManageRoles allows editing roles, their permissions and UI documents.
	PermManageRoles = "manage_roles"
	// PermManageUsers allows managing user accounts.
	PermManageUsers = "manage_users"
	// PermManageClients allows creating and editing client records.
	PermManageClients = "manage_clients"
	// PermViewClients allows reading client records.
	PermViewClients = "view_clients"
	// PermManageServices allows managing service bookings.
	PermManageServices = "manage_services"
	// PermManageBudgets allows editing funding plans and budgets.
	PermManageBudgets = "manage_budgets"
	// PermViewReports allows reading reports.
	PermViewReports = "view_reports"
	// PermSendMessages allows sending messages to clients and workers.
	PermSendMessages = "send_messages"
	// PermManageCourses allows managing the training course catalog.
	PermManageCourses = "manage_courses"
)

// Role names of the seeded roles.
const (
	RoleAdmin         = "admin"
	RoleCoordinator   = "coordinator"
	RoleSupportWorker = "support_worker"
	RoleClient        = "client"
)

// CatalogEntry describes one permission of the default catalog.
type CatalogEntry struct {
	Name        string
	Description string
}

// Catalog returns the default permission catalog in seeding order.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{PermManageRoles, "Manage roles, role permissions and role UI configuration"},
		{PermManageUsers, "Manage user accounts"},
		{PermManageClients, "Create and edit clients"},
		{PermViewClients, "View clients"},
		{PermManageServices, "Manage service bookings"},
		{PermManageBudgets, "Manage funding plans and budgets"},
		{PermViewReports, "View reports"},
		{PermSendMessages, "Send messages"},
		{PermManageCourses, "Manage training courses"},
	}
}
