package models

// EntityStatus is the lifecycle state of a reference entity.
type EntityStatus string

const (
	EntityStatusActive   EntityStatus = "active"
	EntityStatusInactive EntityStatus = "inactive"
)

// OrganizationStatus is the moderation lifecycle state of an organization
// or a staged organization version.
type OrganizationStatus string

const (
	OrganizationStatusCheck    OrganizationStatus = "check"
	OrganizationStatusAccepted OrganizationStatus = "accepted"
	OrganizationStatusRejected OrganizationStatus = "rejected"
	OrganizationStatusDeleted  OrganizationStatus = "deleted"
)

// VersionMethod is the kind of change a staged organization version proposes.
type VersionMethod string

const (
	MethodCreate  VersionMethod = "create"
	MethodUpdate  VersionMethod = "update"
	MethodDelete  VersionMethod = "delete"
	MethodRestore VersionMethod = "restore"
)

// ActorRole identifies who originated a request.
type ActorRole string

const (
	RoleModerator ActorRole = "moderator"
	RoleClient    ActorRole = "client"
	RoleBilling   ActorRole = "billing"
)

// IsModerator reports whether the role may apply changes immediately and
// approve or reject staged versions.
func (r ActorRole) IsModerator() bool {
	return r == RoleModerator
}
