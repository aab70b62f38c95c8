package model

import "time"

// FarmPlan is the owning scope for tasks and their dependency graph.
type FarmPlan struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CropPlan records one crop planted under a farm plan. It is the
// input the task generator expands into a dated task list.
type CropPlan struct {
	ID         string  `json:"id" db:"id"`
	FarmPlanID string  `json:"farm_plan_id" db:"farm_plan_id"`
	CropName   string  `json:"crop_name" db:"crop_name"`
	Hectares   float64 `json:"hectares" db:"hectares"`

	// PlantingDate is the planned planting date; generation falls
	// back to it when the caller supplies none.
	PlantingDate *time.Time `json:"planting_date,omitempty" db:"planting_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
