// internal/app/features/cards/types.go
package cards

import (
	"github.com/dalemusser/crccards/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// List elements are pointers so a JSON null entry is seen and rejected
// instead of decoding to "".

// createInput is the POST /cards body. projectId format is checked after
// the struct rules so a malformed id gets its own error.
type createInput struct {
	ProjectID        string    `json:"projectId" validate:"required" label:"Project id"`
	ClassName        string    `json:"className" validate:"required,notblank" label:"Class name"`
	Responsibilities []*string `json:"responsibilities" validate:"required,min=1,dive,required" label:"Responsibilities"`
	Collaborators    []*string `json:"collaborators" validate:"required,min=1,dive,required" label:"Collaborators"`
	Attributes       []*string `json:"attributes" validate:"omitempty,dive,required" label:"Attributes"`
	Methods          []*string `json:"methods" validate:"omitempty,dive,required" label:"Methods"`
}

func (in createInput) toModel(projectID primitive.ObjectID) models.Card {
	return models.Card{
		ProjectID:        projectID,
		ClassName:        in.ClassName,
		Responsibilities: values(in.Responsibilities),
		Collaborators:    values(in.Collaborators),
		Attributes:       values(in.Attributes),
		Methods:          values(in.Methods),
	}
}

// issueFlagInput requires every key to be present; empty strings are fine.
// The message is stored as sent; executable markup is rejected.
type issueFlagInput struct {
	Category *string `json:"category" validate:"required" label:"Category"`
	Severity *string `json:"severity" validate:"required" label:"Severity"`
	Message  *string `json:"message" validate:"required,inert" label:"Message"`
}

// updateInput is the PATCH /cards/{id} body. Absent or null fields are left
// unchanged. A projectId key is accepted and ignored.
type updateInput struct {
	ClassName        *string           `json:"className" validate:"omitnil,notblank" label:"Class name"`
	Responsibilities *[]*string        `json:"responsibilities" validate:"omitnil,min=1,dive,required" label:"Responsibilities"`
	Collaborators    *[]*string        `json:"collaborators" validate:"omitnil,min=1,dive,required" label:"Collaborators"`
	Attributes       *[]*string        `json:"attributes" validate:"omitnil,dive,required" label:"Attributes"`
	Methods          *[]*string        `json:"methods" validate:"omitnil,dive,required" label:"Methods"`
	IssueFlags       *[]issueFlagInput `json:"issueFlags" validate:"omitnil,dive" label:"Issue flags"`
}

func (in updateInput) toPatch() models.CardPatch {
	p := models.CardPatch{
		ClassName:        in.ClassName,
		Responsibilities: valuesPtr(in.Responsibilities),
		Collaborators:    valuesPtr(in.Collaborators),
		Attributes:       valuesPtr(in.Attributes),
		Methods:          valuesPtr(in.Methods),
	}
	if in.IssueFlags != nil {
		flags := make([]models.IssueFlag, 0, len(*in.IssueFlags))
		for _, f := range *in.IssueFlags {
			flags = append(flags, models.IssueFlag{
				Category: *f.Category,
				Severity: *f.Severity,
				Message:  *f.Message,
			})
		}
		p.IssueFlags = &flags
	}
	return p
}

// values dereferences a validated list. nil stays nil.
func values(in []*string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = *s
	}
	return out
}

func valuesPtr(in *[]*string) *[]string {
	if in == nil {
		return nil
	}
	out := values(*in)
	if out == nil {
		out = []string{}
	}
	return &out
}

type deleteResponse struct {
	OK bool `json:"ok"`
}
