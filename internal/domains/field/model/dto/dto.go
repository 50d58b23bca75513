package dto

import (
	"arena/internal/domains/field/model"
	"arena/shared"
	gDto "arena/shared/dto"
	gModel "arena/shared/model"
	"arena/shared/timezone"

	"github.com/google/uuid"
)

type UpsertFieldRequest struct {
	Name     string `db:"name"      json:"name"      validate:"required,max=100"`
	Location string `db:"location"  json:"location"  validate:"omitempty,max=255"`
	Size     string `db:"size"      json:"size"      validate:"required,oneof=small medium large"`
	BaseRate int64  `db:"base_rate" json:"base_rate" validate:"gte=0"`
	Status   string `db:"status"    json:"status"    validate:"omitempty,oneof=available maintenance booked"`
}

func (c *UpsertFieldRequest) ToModel(user string) model.Field {
	status := model.StatusAvailable
	if c.Status != "" {
		status = model.Status(c.Status)
	}

	return model.Field{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Location: c.Location,
		Size:     model.Size(c.Size),
		BaseRate: c.BaseRate,
		Status:   status,
		Metadata: gModel.NewMetadata(timezone.Now(), user),
	}
}

// ToUpdate returns the columns to overwrite. Every editable column is written so a rate
// can be lowered to zero.
func (c *UpsertFieldRequest) ToUpdate(user string) map[string]any {
	updated := shared.TransformFields(*c, user)
	updated[model.FieldBaseRate] = c.BaseRate

	return updated
}

type FieldResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Size     string `json:"size"`
	BaseRate int64  `json:"base_rate"`
	Status   string `json:"status"`
	gDto.Metadata
}

func (r *FieldResponse) FromModel(model model.Field) {
	r.ID = model.ID
	r.Name = model.Name
	r.Location = model.Location
	r.Size = string(model.Size)
	r.BaseRate = model.BaseRate
	r.Status = string(model.Status)
	r.Metadata.FromModel(model.Metadata)
}

type GetFieldsResponse struct {
	Fields    []FieldResponse `json:"fields"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetFieldsResponse) FromModels(models []model.Field, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Fields = make([]FieldResponse, len(models))
	for i, mod := range models {
		r.Fields[i].FromModel(mod)
	}
}
