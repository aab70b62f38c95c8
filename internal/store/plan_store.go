package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agroplan/farmtask/internal/model"
)

// CreateFarmPlan inserts a new farm plan. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateFarmPlan(ctx context.Context, plan model.FarmPlan) (model.FarmPlan, error) {
	var zero model.FarmPlan
	if strings.TrimSpace(plan.Name) == "" {
		return zero, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	plan.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO farm_plans (id, name, created_at) VALUES (?, ?, ?)",
		plan.ID, plan.Name, plan.CreatedAt,
	)
	if err != nil {
		return zero, fmt.Errorf("creating farm plan: %w", err)
	}
	return plan, nil
}

// CreateCropPlan inserts a new crop plan under a farm plan.
func (s *SQLiteStore) CreateCropPlan(ctx context.Context, plan model.CropPlan) (model.CropPlan, error) {
	var zero model.CropPlan
	if strings.TrimSpace(plan.FarmPlanID) == "" {
		return zero, &ValidationError{Field: "farm_plan_id", Reason: "is required"}
	}
	if strings.TrimSpace(plan.CropName) == "" {
		return zero, &ValidationError{Field: "crop_name", Reason: "must not be empty"}
	}
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	if plan.Hectares <= 0 {
		plan.Hectares = 1
	}
	plan.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crop_plans (id, farm_plan_id, crop_name, hectares, planting_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.FarmPlanID, plan.CropName, plan.Hectares, plan.PlantingDate, plan.CreatedAt,
	)
	if err != nil {
		return zero, fmt.Errorf("creating crop plan: %w", err)
	}
	return plan, nil
}

// GetCropPlanByID retrieves a single crop plan.
func (s *SQLiteStore) GetCropPlanByID(ctx context.Context, id string) (*model.CropPlan, error) {
	var plan model.CropPlan
	err := s.db.QueryRowxContext(ctx, `
		SELECT id, farm_plan_id, crop_name, hectares, planting_date, created_at
		FROM crop_plans WHERE id = ?`, id).
		Scan(&plan.ID, &plan.FarmPlanID, &plan.CropName, &plan.Hectares,
			&plan.PlantingDate, &plan.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("crop plan %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting crop plan %s: %w", id, err)
	}
	return &plan, nil
}

// ListCropPlans returns every crop plan under a farm plan, oldest first.
func (s *SQLiteStore) ListCropPlans(ctx context.Context, farmPlanID string) ([]model.CropPlan, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, farm_plan_id, crop_name, hectares, planting_date, created_at
		FROM crop_plans WHERE farm_plan_id = ? ORDER BY created_at`,
		farmPlanID)
	if err != nil {
		return nil, fmt.Errorf("querying crop plans: %w", err)
	}
	defer rows.Close()

	var plans []model.CropPlan
	for rows.Next() {
		var plan model.CropPlan
		err := rows.Scan(&plan.ID, &plan.FarmPlanID, &plan.CropName, &plan.Hectares,
			&plan.PlantingDate, &plan.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning crop plan row: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
