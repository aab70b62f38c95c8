package generate

import (
	"reflect"
	"testing"
	"time"

	"github.com/agroplan/farmtask/internal/calendar"
	"github.com/agroplan/farmtask/internal/model"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGenerateDeterministic(t *testing.T) {
	g := New()
	planting := date("2025-03-15")

	a := g.Generate("moringa", 2.5, planting)
	b := g.Generate("moringa", 2.5, planting)

	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different task lists")
	}
}

func TestGenerateUnknownCropFallsBack(t *testing.T) {
	g := New()
	planting := date("2025-03-15")
	tasks := g.Generate("quinoa", 1, planting)

	// Default calendar: irrigation every 7 days, no fertilizer, 90
	// days to harvest. 3 pre-planting/planting + 12 irrigation + 2 harvest.
	if len(tasks) != 17 {
		t.Fatalf("task count = %d, want 17", len(tasks))
	}

	counts := map[string]int{}
	for _, task := range tasks {
		counts[task.Category]++
	}
	want := map[string]int{
		model.CategorySoilPreparation: 1,
		model.CategoryProcurement:     1,
		model.CategoryPlanting:        1,
		model.CategoryIrrigation:      12,
		model.CategoryHarvest:         2,
	}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("category counts = %v, want %v", counts, want)
	}

	last := tasks[len(tasks)-1]
	if !last.DueDate.Equal(planting.AddDate(0, 0, 90)) {
		t.Errorf("harvest due %v, want planting+90d", last.DueDate)
	}
}

func TestGenerateCompletenessFloor(t *testing.T) {
	// Every crop name, known or not, yields at least the five
	// unconditional tasks.
	g := New()
	planting := date("2025-03-15")

	for _, crop := range []string{"dragon-fruit", "moringa", "lucerne", "no-such-crop", ""} {
		tasks := g.Generate(crop, 1, planting)
		if len(tasks) < 5 {
			t.Errorf("crop %q produced %d tasks, want >= 5", crop, len(tasks))
		}

		counts := map[string]int{}
		for _, task := range tasks {
			counts[task.Category]++
		}
		if counts[model.CategorySoilPreparation] < 1 ||
			counts[model.CategoryProcurement] < 1 ||
			counts[model.CategoryPlanting] < 1 ||
			counts[model.CategoryHarvest] < 2 {
			t.Errorf("crop %q missing unconditional tasks: %v", crop, counts)
		}
	}
}

func TestGenerateNoIrrigationCadence(t *testing.T) {
	g := WithCalendars(calendar.Table{
		"dryland-sorghum": {DaysToHarvest: 110},
	})
	tasks := g.Generate("dryland-sorghum", 3, date("2025-03-15"))

	for _, task := range tasks {
		if task.Category == model.CategoryIrrigation {
			t.Fatal("crop without irrigation cadence should schedule no irrigation checks")
		}
	}
	if len(tasks) != 5 {
		t.Errorf("task count = %d, want 5", len(tasks))
	}
}

func TestGeneratePotatoScenario(t *testing.T) {
	g := WithCalendars(calendar.Table{
		"potato": {
			DaysToHarvest:           120,
			IrrigationFrequencyDays: 10,
			FertilizerApplications: []calendar.FertilizerApplication{
				{Type: "NPK", DaysAfterPlanting: 30, Rate: "200kg/ha"},
			},
		},
	})
	planting := date("2025-08-01")
	tasks := g.Generate("potato", 5, planting)

	// 3 + 12 irrigation + 1 fertilizer + 2 harvest.
	if len(tasks) != 18 {
		t.Fatalf("task count = %d, want 18", len(tasks))
	}

	checkDue := func(i int, category, due string) {
		t.Helper()
		if tasks[i].Category != category {
			t.Errorf("task %d category = %q, want %q", i, tasks[i].Category, category)
		}
		if !tasks[i].DueDate.Equal(date(due)) {
			t.Errorf("task %d due %v, want %s", i, tasks[i].DueDate, due)
		}
	}

	checkDue(0, model.CategorySoilPreparation, "2025-07-18")
	checkDue(1, model.CategoryProcurement, "2025-07-11")
	checkDue(2, model.CategoryPlanting, "2025-08-01")
	checkDue(3, model.CategoryIrrigation, "2025-08-11")
	checkDue(4, model.CategoryIrrigation, "2025-08-21")
	checkDue(14, model.CategoryIrrigation, "2025-11-29")
	checkDue(15, model.CategoryFertilization, "2025-08-31")
	checkDue(16, model.CategoryHarvest, "2025-11-22")
	checkDue(17, model.CategoryHarvest, "2025-11-29")

	if tasks[2].Priority != model.PriorityUrgent {
		t.Errorf("planting priority = %q, want urgent", tasks[2].Priority)
	}
	if tasks[17].Priority != model.PriorityUrgent {
		t.Errorf("harvest priority = %q, want urgent", tasks[17].Priority)
	}
	if tasks[15].Description != "Apply NPK at rate 200kg/ha" {
		t.Errorf("fertilizer description = %q", tasks[15].Description)
	}
}
