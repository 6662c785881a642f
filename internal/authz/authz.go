// Package authz implements the authorization engine: a static table of
// permission predicates keyed by (resource, action), evaluated against an
// actor and a target reference. Rules compose two ingredients only, the
// actor's role and resource ownership, so the engine stays a pure lookup
// instead of a general RBAC system.
package authz

import (
	"github.com/google/uuid"
)

// Action is the operation an actor wants to perform on a resource.
type Action string

const (
	ActionCreate     Action = "create"
	ActionViewAny    Action = "viewAny"
	ActionView       Action = "view"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionUpdateRole Action = "updateRole"
)

// Resource is the kind of entity a permission check targets.
type Resource string

const (
	ResourcePosts      Resource = "posts"
	ResourceCategories Resource = "categories"
	ResourceTags       Resource = "tags"
	ResourceComments   Resource = "comments"
	ResourceUsers      Resource = "users"
)

// Actor is the authenticated user a check is evaluated for. Only the
// identity and the elevated-role flag matter to the rules.
type Actor struct {
	ID    uuid.UUID
	Admin bool
}

// Ref identifies the target of a permission check. Class-level actions
// (create, viewAny) carry only the resource kind; instance-level actions
// also carry the entity id and its owner. Comments additionally carry their
// polymorphic commentable target so the delete rule can consult the
// ownership registry for the commented entity's owner.
type Ref struct {
	Resource Resource
	ID       uuid.UUID
	OwnerID  uuid.UUID

	// Commentable target, set for comment refs only. TargetType is the
	// ownership registry key (e.g. "posts").
	TargetType string
	TargetID   uuid.UUID
}

// ClassRef builds a reference to an entity class, for create/viewAny checks
// where no instance exists yet.
func ClassRef(resource Resource) Ref {
	return Ref{Resource: resource}
}

// InstanceRef builds a reference to a concrete entity instance.
func InstanceRef(resource Resource, id, ownerID uuid.UUID) Ref {
	return Ref{Resource: resource, ID: id, OwnerID: ownerID}
}

// CommentRef builds a reference to a comment, including its commentable
// target for the post-owner delete rule.
func CommentRef(id, authorID uuid.UUID, targetType string, targetID uuid.UUID) Ref {
	return Ref{
		Resource:   ResourceComments,
		ID:         id,
		OwnerID:    authorID,
		TargetType: targetType,
		TargetID:   targetID,
	}
}
