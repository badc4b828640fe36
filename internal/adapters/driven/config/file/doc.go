// Package file provides the TOML configuration store for vnlaw.
//
// Keys are addressed in dot notation ("storage.driver") and written back
// as TOML tables, so the file stays hand-editable:
//
//	[storage]
//	driver = "sqlite"
//
//	[decree]
//	related_law_code = "52/2014/QH13"
package file
