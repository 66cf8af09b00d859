// internal/domain/models/project.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project member roles.
const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// MemberRoles is the canonical list of roles a project member may hold.
var MemberRoles = []string{RoleOwner, RoleEditor, RoleViewer}

// Member is a user's role on a project.
//
// NOTE: membership is stored but never enforced; no endpoint grants or
// checks access based on it.
type Member struct {
	UserID primitive.ObjectID `bson:"user_id" json:"userId"`
	Role   string             `bson:"role" json:"role"`
}

// Project groups the CRC cards of one design session.
type Project struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	OwnerID     *primitive.ObjectID `bson:"owner_id" json:"ownerId"` // always nil today
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description" json:"description"`
	Members     []Member            `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Normalize trims the name, fills defaults, and guarantees non-nil slices
// so documents always encode members as an array.
func (p *Project) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	if p.Members == nil {
		p.Members = []Member{}
	}
	for i := range p.Members {
		if p.Members[i].Role == "" {
			p.Members[i].Role = RoleOwner
		}
	}
}

// Validate checks the storage-level invariants of a project document.
// It is independent of any request-body validation.
func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invariant("name", "must not be empty")
	}
	for _, m := range p.Members {
		if m.UserID.IsZero() {
			return invariant("members.userId", "is required")
		}
		if !IsValidMemberRole(m.Role) {
			return invariant("members.role", "must be one of owner, editor, viewer")
		}
	}
	return nil
}

// IsValidMemberRole reports whether role is one of MemberRoles.
func IsValidMemberRole(role string) bool {
	for _, r := range MemberRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ProjectPatch carries a partial update. Nil fields are left unchanged.
type ProjectPatch struct {
	Name        *string
	Description *string
}

// Validate checks that every supplied field still satisfies the project
// invariants.
func (p ProjectPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invariant("name", "must not be empty")
	}
	return nil
}
