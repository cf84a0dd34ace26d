// Package docindex indexes a tree of markdown documentation into a local
// full-text store and serves keyword search and document retrieval over it.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, bleve/, markdown/).
package docindex
