// Package store persists sidebar specifications, one JSON document per
// project. The write path is an atomic whole-document replace; there is no
// partial persistence of a half-merged spec.
package store

import (
	"context"

	"github.com/SaxonF/supawatch/internal/sidebar"
)

// Store is the persistence collaborator consumed by the admin service.
type Store interface {
	// Specification returns the stored document for a project, or the
	// default specification when none is persisted.
	Specification(ctx context.Context, projectID string) (*sidebar.Spec, error)

	// HasSpecification reports whether a document is persisted for the
	// project.
	HasSpecification(ctx context.Context, projectID string) (bool, error)

	// WriteSpecification replaces the project's document wholesale.
	WriteSpecification(ctx context.Context, projectID string, spec *sidebar.Spec) error

	// AddItemToGroup appends an item to a manual group atomically
	// (read-modify-write inside one transaction).
	AddItemToGroup(ctx context.Context, projectID, groupID string, item sidebar.Item) error

	// AddGroup appends a group, or replaces one with the same id in place,
	// atomically.
	AddGroup(ctx context.Context, projectID string, group sidebar.Group) error

	Close() error
}
