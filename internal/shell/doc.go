// Package shell is the client side of the ui-config API: it fetches the combined
// documents of a role, negotiating down through the API generations on 404, and
// interprets them into a menu and dashboard panels.
//
// Icon and component registries are built once and only read afterwards, so a
// Loader is safe for concurrent use.
package shell
