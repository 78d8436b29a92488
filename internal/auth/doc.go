// Package auth provides authentication and authorization for the back office.
//
// # Principal
//
// Every request acts on behalf of a Principal: the signed-in user together with
// the role they hold and that role's permission set. The Principal is loaded from
// the database for each request by Service.LoadPrincipal and is never cached, so
// an edit to a role takes effect on the very next request.
//
// # Capability checks
//
// Principal.HasPermission answers "may this user do P?" with a set lookup.
// Composite checks are expressed as Predicate values:
//   - Has: the principal holds a permission
//   - IsRole: the principal's role is one of the given names
//   - IsSelfOrRole: the principal is the target user or holds one of the roles
//   - AnyOf, AllOf: combine predicates
//
// Predicates are pure functions of the Principal; Satisfies never succeeds for a
// nil Principal.
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - Authenticate: resolve the session cookie into a Principal
//   - RequirePermission: protect routes requiring a specific permission
//   - Require: protect routes with a request-dependent predicate
//
// Denials are logged and counted in the authz_denied_total metric.
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	api.Get("/roles",
//	    auth.RequirePermission(auth.PermManageRoles),
//	    handler,
//	)
//
//	api.Get("/users/:id/permissions",
//	    auth.Require("self_or_admin", func(c *fiber.Ctx) auth.Predicate {
//	        return auth.IsSelfOrRole(uint64(c.ParamsInt("id")), auth.RoleAdmin)
//	    }),
//	    handler,
//	)
package auth
