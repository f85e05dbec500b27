package model

import "time"

type Resource struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Type      string    `json:"type" bson:"type" validate:"required,min=1,max=50"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ResourceCreate is the inbound shape for resource creation. IsActive is a
// pointer so an omitted field defaults to true rather than false.
type ResourceCreate struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Type     string `json:"type" validate:"required,min=1,max=50"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type ResourceUpdate struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Type     *string `json:"type,omitempty" validate:"omitempty,min=1,max=50"`
	IsActive *bool   `json:"is_active,omitempty"`
}
