package model

import (
	"time"

	"arena/shared/model"
)

const (
	TableName  = "fields"
	EntityName = "field"

	FieldID        = "id"
	FieldName      = "name"
	FieldLocation  = "location"
	FieldSize      = "size"
	FieldBaseRate  = "base_rate"
	FieldStatus    = "status"
	FieldDeletedAt = "deleted_at"
)

type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusMaintenance Status = "maintenance"
	StatusBooked      Status = "booked"
)

type Field struct {
	ID        string     `db:"id"`
	Name      string     `db:"name"`
	Location  string     `db:"location"`
	Size      Size       `db:"size"`
	BaseRate  int64      `db:"base_rate"`
	Status    Status     `db:"status"`
	DeletedAt *time.Time `db:"deleted_at"`
	model.Metadata
}

func (f Field) IsDeleted() bool {
	return f.DeletedAt != nil
}

// UnderMaintenance reports a field whose slots must all be shown unavailable.
func (f Field) UnderMaintenance() bool {
	return f.Status == StatusMaintenance
}
