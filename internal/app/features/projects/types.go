// internal/app/features/projects/types.go
package projects

import (
	"github.com/dalemusser/crccards/internal/domain/models"
)

// createInput is the POST /projects body. The description is stored as
// sent; executable markup is rejected.
type createInput struct {
	Name        string `json:"name" validate:"required,notblank" label:"Name"`
	Description string `json:"description" validate:"inert" label:"Description"`
}

func (in createInput) toModel() models.Project {
	return models.Project{
		Name:        in.Name,
		Description: in.Description,
		Members:     []models.Member{},
	}
}

// updateInput is the PATCH /projects/{id} body. Absent or null fields are
// left unchanged.
type updateInput struct {
	Name        *string `json:"name" validate:"omitnil,notblank" label:"Name"`
	Description *string `json:"description" validate:"omitnil,inert" label:"Description"`
}

func (in updateInput) toPatch() models.ProjectPatch {
	return models.ProjectPatch{Name: in.Name, Description: in.Description}
}

// deleteResponse acknowledges a delete. DeletedCards is only reported when
// cascade delete is enabled.
type deleteResponse struct {
	OK           bool   `json:"ok"`
	DeletedCards *int64 `json:"deletedCards,omitempty"`
}
