package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agroplan/farmtask/internal/model"
	"github.com/agroplan/farmtask/internal/store"
	"github.com/agroplan/farmtask/tests/testutil"
)

func TestAddDependency(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	plan := newPlan(t, s)

	a := newTask(t, s, plan.ID, "Order seeds")
	b := newTask(t, s, plan.ID, "Plant")

	t.Run("records edge with defaults", func(t *testing.T) {
		dep, err := s.AddDependency(ctx, b.ID, a.ID, "", 0)
		if err != nil {
			t.Fatalf("AddDependency: %v", err)
		}
		if dep.DependencyType != model.DepFinishToStart {
			t.Errorf("type = %q, want finish-to-start", dep.DependencyType)
		}
		if dep.ID == "" {
			t.Error("expected generated id")
		}
	})

	t.Run("self reference rejected", func(t *testing.T) {
		_, err := s.AddDependency(ctx, a.ID, a.ID, model.DepFinishToStart, 0)
		if !errors.Is(err, store.ErrSelfReference) {
			t.Errorf("expected ErrSelfReference, got %v", err)
		}
	})

	t.Run("unknown task rejected", func(t *testing.T) {
		_, err := s.AddDependency(ctx, a.ID, "ghost", model.DepFinishToStart, 0)
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := s.AddDependency(ctx, a.ID, b.ID, "must-follow", 0)
		if !store.IsValidation(err) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("negative lag expresses lead time", func(t *testing.T) {
		c := newTask(t, s, plan.ID, "Pre-irrigate")
		dep, err := s.AddDependency(ctx, c.ID, a.ID, model.DepStartToStart, -3)
		if err != nil {
			t.Fatalf("AddDependency: %v", err)
		}
		if dep.LagDays != -3 {
			t.Errorf("lag = %d, want -3", dep.LagDays)
		}
	})
}

func TestAddDependencyCycleRejection(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	plan := newPlan(t, s)

	a := newTask(t, s, plan.ID, "A")
	b := newTask(t, s, plan.ID, "B")
	c := newTask(t, s, plan.ID, "C")

	// Chain: C depends on B depends on A.
	if _, err := s.AddDependency(ctx, b.ID, a.ID, model.DepFinishToStart, 0); err != nil {
		t.Fatalf("B->A: %v", err)
	}
	if _, err := s.AddDependency(ctx, c.ID, b.ID, model.DepFinishToStart, 0); err != nil {
		t.Fatalf("C->B: %v", err)
	}

	t.Run("closing the loop is rejected", func(t *testing.T) {
		_, err := s.AddDependency(ctx, a.ID, c.ID, model.DepFinishToStart, 0)
		if !errors.Is(err, store.ErrCycle) {
			t.Fatalf("expected ErrCycle, got %v", err)
		}
	})

	t.Run("rejection leaves the graph unchanged", func(t *testing.T) {
		deps, err := s.ListDependenciesForFarmPlan(ctx, plan.ID)
		if err != nil {
			t.Fatalf("ListDependenciesForFarmPlan: %v", err)
		}
		if len(deps) != 2 {
			t.Errorf("edge count = %d, want 2", len(deps))
		}
	})

	t.Run("WouldCreateCycle agrees without mutating", func(t *testing.T) {
		cyclic, err := s.WouldCreateCycle(ctx, a.ID, c.ID)
		if err != nil {
			t.Fatalf("WouldCreateCycle: %v", err)
		}
		if !cyclic {
			t.Error("expected cycle to be reported")
		}

		safe, err := s.WouldCreateCycle(ctx, c.ID, a.ID)
		if err != nil {
			t.Fatalf("WouldCreateCycle: %v", err)
		}
		if safe {
			t.Error("redundant forward edge misreported as a cycle")
		}
	})
}

func TestRemoveDependency(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	plan := newPlan(t, s)

	a := newTask(t, s, plan.ID, "A")
	b := newTask(t, s, plan.ID, "B")

	dep, err := s.AddDependency(ctx, b.ID, a.ID, model.DepFinishToStart, 0)
	if err != nil {
		t.Fatalf("AddDependency: %v", err)
	}

	if err := s.RemoveDependency(ctx, dep.ID); err != nil {
		t.Fatalf("RemoveDependency: %v", err)
	}
	if err := s.RemoveDependency(ctx, dep.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second removal, got %v", err)
	}

	// Edge removal re-enables the reverse direction.
	if _, err := s.AddDependency(ctx, a.ID, b.ID, model.DepFinishToStart, 0); err != nil {
		t.Errorf("reverse edge after removal: %v", err)
	}
}

func TestListDependencies(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	plan := newPlan(t, s)

	due := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	planting, err := s.CreateTask(ctx, model.Task{
		FarmPlanID: plan.ID, Title: "Plant", DueDate: &due, Status: model.StatusPending,
	})
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	seeds := newTask(t, s, plan.ID, "Order seeds")

	if _, err := s.AddDependency(ctx, planting.ID, seeds.ID, model.DepFinishToStart, 2); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}

	t.Run("for task carries both tasks' fields", func(t *testing.T) {
		deps, err := s.ListDependenciesForTask(ctx, planting.ID)
		if err != nil {
			t.Fatalf("ListDependenciesForTask: %v", err)
		}
		if len(deps) != 1 {
			t.Fatalf("dep count = %d, want 1", len(deps))
		}
		d := deps[0]
		if d.TaskTitle != "Plant" || d.DependsOnTitle != "Order seeds" {
			t.Errorf("titles = %q / %q", d.TaskTitle, d.DependsOnTitle)
		}
		if d.TaskStatus != model.StatusPending || d.DependsOnStatus != model.StatusPending {
			t.Errorf("statuses = %q / %q", d.TaskStatus, d.DependsOnStatus)
		}
		if d.TaskDueDate == nil || !d.TaskDueDate.Equal(due) {
			t.Errorf("task due date = %v, want %v", d.TaskDueDate, due)
		}
		if d.LagDays != 2 {
			t.Errorf("lag = %d, want 2", d.LagDays)
		}
	})

	t.Run("for farm plan is scoped", func(t *testing.T) {
		other := newPlan(t, s)
		x := newTask(t, s, other.ID, "X")
		y := newTask(t, s, other.ID, "Y")
		if _, err := s.AddDependency(ctx, y.ID, x.ID, model.DepFinishToStart, 0); err != nil {
			t.Fatalf("AddDependency: %v", err)
		}

		deps, err := s.ListDependenciesForFarmPlan(ctx, plan.ID)
		if err != nil {
			t.Fatalf("ListDependenciesForFarmPlan: %v", err)
		}
		if len(deps) != 1 {
			t.Errorf("dep count = %d, want 1", len(deps))
		}
	})
}

func TestCrossPlanEdgesDoNotConfineCycleCheck(t *testing.T) {
	// Two plans with identically shaped graphs; edges in one plan must
	// not trip cycle detection in the other.
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	p1 := newPlan(t, s)
	p2 := newPlan(t, s)
	a1 := newTask(t, s, p1.ID, "A")
	b1 := newTask(t, s, p1.ID, "B")
	a2 := newTask(t, s, p2.ID, "A")
	b2 := newTask(t, s, p2.ID, "B")

	if _, err := s.AddDependency(ctx, b1.ID, a1.ID, model.DepFinishToStart, 0); err != nil {
		t.Fatalf("plan1 edge: %v", err)
	}
	if _, err := s.AddDependency(ctx, a2.ID, b2.ID, model.DepFinishToStart, 0); err != nil {
		t.Errorf("plan2 reverse-shaped edge should be fine: %v", err)
	}
}
