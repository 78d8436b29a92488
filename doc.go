// Package main provides the entry point of CareDesk, the role-driven access control
// and UI configuration service of a care management platform. It serves a JSON API
// through fiber, keeps roles, permissions and the per-role dashboard and sidebar
// documents in a gorm database and exposes them over several API generations.
package main
