package domain

// Category identifies one of the mileage-tracked maintenance types. Each
// vehicle carries one MaintenanceCounter per category.
type Category string

const (
	CategoryOil          Category = "oil"
	CategoryOilFilter    Category = "oil_filter"
	CategoryAirFilter    Category = "air_filter"
	CategoryFuelFilter   Category = "fuel_filter"
	CategoryCabinFilter  Category = "cabin_filter"
	CategoryBrakes       Category = "brakes"
	CategoryShocks       Category = "shocks"
	CategoryTires        Category = "tires"
	CategoryTimingBelt   Category = "timing_belt"
	CategoryCoolant      Category = "coolant"
	CategoryDifferential Category = "differential"
)

// DefaultIntervals maps every tracked category to its default service
// interval in kilometers. New vehicles are seeded with these values; fleet
// managers can tune them per vehicle afterwards.
var DefaultIntervals = map[Category]int{
	CategoryOil:          1000,
	CategoryOilFilter:    1000,
	CategoryAirFilter:    10000,
	CategoryFuelFilter:   10000,
	CategoryCabinFilter:  10000,
	CategoryBrakes:       20000,
	CategoryShocks:       50000,
	CategoryTires:        30000,
	CategoryTimingBelt:   80000,
	CategoryCoolant:      40000,
	CategoryDifferential: 60000,
}

// Categories lists every tracked category in a stable order, used when
// seeding counters so rows are created deterministically.
var Categories = []Category{
	CategoryOil,
	CategoryOilFilter,
	CategoryAirFilter,
	CategoryFuelFilter,
	CategoryCabinFilter,
	CategoryBrakes,
	CategoryShocks,
	CategoryTires,
	CategoryTimingBelt,
	CategoryCoolant,
	CategoryDifferential,
}

// ValidCategory reports whether c is one of the tracked categories.
func ValidCategory(c Category) bool {
	_, ok := DefaultIntervals[c]
	return ok
}
