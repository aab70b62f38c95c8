// Package generate expands a crop plan's planting date into a dated,
// prioritized list of draft tasks following a fixed production
// template: soil preparation, procurement, planting, periodic
// irrigation checks, fertilizer events, and harvest.
package generate

import (
	"fmt"
	"time"

	"github.com/agroplan/farmtask/internal/calendar"
	"github.com/agroplan/farmtask/internal/model"
)

// irrigationRepetitions is how many irrigation check tasks are
// scheduled for crops with an irrigation cadence.
const irrigationRepetitions = 12

// Generator expands crop plans into draft task lists. The zero-cost
// construction via New uses the built-in crop calendars.
type Generator struct {
	calendars calendar.Table
}

// New returns a Generator backed by the built-in crop calendar table.
func New() *Generator {
	return &Generator{calendars: calendar.Builtin()}
}

// WithCalendars returns a Generator using a custom calendar table.
// Crops absent from the table still fall back to the default calendar.
func WithCalendars(t calendar.Table) *Generator {
	return &Generator{calendars: t}
}

// Generate produces the ordered draft task list for one crop. It is a
// pure function of its inputs: no I/O, no clock reads, identical
// output for identical arguments. Unknown crop names use the default
// calendar, so there is always at least the soil preparation,
// procurement, planting, and two harvest tasks.
func (g *Generator) Generate(cropName string, hectares float64, plantingDate time.Time) []model.DraftTask {
	if cropName == "" {
		cropName = "crop"
	}
	if hectares <= 0 {
		hectares = 1
	}
	cal := g.calendars.Lookup(cropName)

	tasks := []model.DraftTask{
		{
			Title:       fmt.Sprintf("Soil Preparation - %s", cropName),
			Description: fmt.Sprintf("Prepare %g hectares for planting. Till soil, add compost, test pH.", hectares),
			Priority:    model.PriorityHigh,
			Category:    model.CategorySoilPreparation,
			DueDate:     plantingDate.AddDate(0, 0, -14),
		},
		{
			Title:       fmt.Sprintf("Order Seeds - %s", cropName),
			Description: fmt.Sprintf("Order seeds for %g hectares.", hectares),
			Priority:    model.PriorityHigh,
			Category:    model.CategoryProcurement,
			DueDate:     plantingDate.AddDate(0, 0, -21),
		},
		{
			Title:       fmt.Sprintf("Plant %s", cropName),
			Description: fmt.Sprintf("Plant %s in %g hectares.", cropName, hectares),
			Priority:    model.PriorityUrgent,
			Category:    model.CategoryPlanting,
			DueDate:     plantingDate,
		},
	}

	if cal.IrrigationFrequencyDays > 0 {
		for i := 1; i <= irrigationRepetitions; i++ {
			tasks = append(tasks, model.DraftTask{
				Title:       fmt.Sprintf("Irrigation Check - %s", cropName),
				Description: fmt.Sprintf("Check irrigation for %s.", cropName),
				Priority:    model.PriorityMedium,
				Category:    model.CategoryIrrigation,
				DueDate:     plantingDate.AddDate(0, 0, i*cal.IrrigationFrequencyDays),
			})
		}
	}

	for _, app := range cal.FertilizerApplications {
		tasks = append(tasks, model.DraftTask{
			Title:       fmt.Sprintf("Apply Fertilizer (%s) - %s", app.Type, cropName),
			Description: fmt.Sprintf("Apply %s at rate %s", app.Type, app.Rate),
			Priority:    model.PriorityHigh,
			Category:    model.CategoryFertilization,
			DueDate:     plantingDate.AddDate(0, 0, app.DaysAfterPlanting),
		})
	}

	tasks = append(tasks,
		model.DraftTask{
			Title:       fmt.Sprintf("Harvest Preparation - %s", cropName),
			Description: fmt.Sprintf("Prepare for harvest of %s.", cropName),
			Priority:    model.PriorityHigh,
			Category:    model.CategoryHarvest,
			DueDate:     plantingDate.AddDate(0, 0, cal.DaysToHarvest-7),
		},
		model.DraftTask{
			Title:       fmt.Sprintf("Harvest %s", cropName),
			Description: fmt.Sprintf("Harvest %s from %g hectares.", cropName, hectares),
			Priority:    model.PriorityUrgent,
			Category:    model.CategoryHarvest,
			DueDate:     plantingDate.AddDate(0, 0, cal.DaysToHarvest),
		},
	)

	return tasks
}
