// internal/domain/models/card.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueFlag is a free-form annotation attached to a card.
// Nothing in the service computes these; clients set them via PATCH.
type IssueFlag struct {
	Category string `bson:"category" json:"category"`
	Severity string `bson:"severity" json:"severity"`
	Message  string `bson:"message" json:"message"`
}

// Card is a Class–Responsibility–Collaborator card.
//
// NOTE: ProjectID is a reference, not an ownership link. Deleting the
// project leaves its cards in place unless cascade delete is enabled.
type Card struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	ProjectID        primitive.ObjectID `bson:"project_id" json:"projectId"`
	ClassName        string             `bson:"class_name" json:"className"`
	Responsibilities []string           `bson:"responsibilities" json:"responsibilities"`
	Collaborators    []string           `bson:"collaborators" json:"collaborators"`
	Attributes       []string           `bson:"attributes" json:"attributes"`
	Methods          []string           `bson:"methods" json:"methods"`
	IssueFlags       []IssueFlag        `bson:"issue_flags" json:"issueFlags"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Normalize trims the class name and replaces nil slices with empty ones.
func (c *Card) Normalize() {
	c.ClassName = strings.TrimSpace(c.ClassName)
	c.Responsibilities = nonNil(c.Responsibilities)
	c.Collaborators = nonNil(c.Collaborators)
	c.Attributes = nonNil(c.Attributes)
	c.Methods = nonNil(c.Methods)
	if c.IssueFlags == nil {
		c.IssueFlags = []IssueFlag{}
	}
}

// Validate checks the storage-level invariants of a card document.
func (c Card) Validate() error {
	if c.ProjectID.IsZero() {
		return invariant("projectId", "is required")
	}
	if strings.TrimSpace(c.ClassName) == "" {
		return invariant("className", "must not be empty")
	}
	if len(c.Responsibilities) < 1 {
		return invariant("responsibilities", "must contain at least one entry")
	}
	if len(c.Collaborators) < 1 {
		return invariant("collaborators", "must contain at least one entry")
	}
	return nil
}

// CardPatch carries a partial card update. Nil fields are left unchanged;
// a non-nil pointer to an empty slice clears optional lists.
type CardPatch struct {
	ClassName        *string
	Responsibilities *[]string
	Collaborators    *[]string
	Attributes       *[]string
	Methods          *[]string
	IssueFlags       *[]IssueFlag
}

// Validate checks that supplied fields keep the card invariants intact.
func (p CardPatch) Validate() error {
	if p.ClassName != nil && strings.TrimSpace(*p.ClassName) == "" {
		return invariant("className", "must not be empty")
	}
	if p.Responsibilities != nil && len(*p.Responsibilities) < 1 {
		return invariant("responsibilities", "must contain at least one entry")
	}
	if p.Collaborators != nil && len(*p.Collaborators) < 1 {
		return invariant("collaborators", "must contain at least one entry")
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
