// Package calendar holds the fixed per-crop production calendars the
// task generator expands a planting date against.
package calendar

// FertilizerApplication is one scheduled fertilizer event.
type FertilizerApplication struct {
	// Type is the fertilizer product, e.g. "NPK" or "Compost".
	Type string

	// DaysAfterPlanting is when the application falls due.
	DaysAfterPlanting int

	// Rate is the human-readable application rate, e.g. "100g/plant".
	Rate string
}

// CropCalendar describes a crop's production timeline.
type CropCalendar struct {
	// DaysToHarvest is the days from planting until harvest.
	DaysToHarvest int

	// IrrigationFrequencyDays is the cadence of irrigation checks.
	// Zero means the crop schedules no irrigation checks.
	IrrigationFrequencyDays int

	// FertilizerApplications lists scheduled fertilizer events.
	FertilizerApplications []FertilizerApplication
}

// Default is the fallback calendar for crops without a specific entry.
var Default = CropCalendar{
	DaysToHarvest:           90,
	IrrigationFrequencyDays: 7,
}

// Table maps crop names to their calendars.
type Table map[string]CropCalendar

// builtin carries the crops the system ships with.
var builtin = Table{
	"dragon-fruit": {
		DaysToHarvest:           180,
		IrrigationFrequencyDays: 7,
		FertilizerApplications: []FertilizerApplication{
			{Type: "NPK", DaysAfterPlanting: 30, Rate: "100g/plant"},
			{Type: "Phosphorus", DaysAfterPlanting: 90, Rate: "50g/plant"},
		},
	},
	"moringa": {
		DaysToHarvest:           60,
		IrrigationFrequencyDays: 5,
		FertilizerApplications: []FertilizerApplication{
			{Type: "Compost", DaysAfterPlanting: 20, Rate: "2kg/plant"},
		},
	},
	"lucerne": {
		DaysToHarvest:           90,
		IrrigationFrequencyDays: 10,
	},
}

// Builtin returns a copy of the built-in crop table so callers can
// extend it without mutating the shipped entries.
func Builtin() Table {
	t := make(Table, len(builtin))
	for name, cal := range builtin {
		t[name] = cal
	}
	return t
}

// Lookup returns the calendar for cropName, falling back to Default
// for unknown crops. It never fails: any crop name yields a usable
// calendar.
func (t Table) Lookup(cropName string) CropCalendar {
	if cal, ok := t[cropName]; ok {
		return cal
	}
	return Default
}
