package model

// WeightEntry is one body-weight reading. There is at most one per day.
type WeightEntry struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// Meal is a protein log line.
type Meal struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Grams float64 `json:"g"`
}

// ProteinDay groups the meals logged on one date.
type ProteinDay struct {
	Date  string `json:"date"`
	Meals []Meal `json:"meals"`
}

// CalorieEntry holds the calories eaten and burned on one date.
type CalorieEntry struct {
	Date   string  `json:"date"`
	Eaten  float64 `json:"eaten"`
	Burned float64 `json:"burned"`
}

// Deficit is burned minus eaten.
func (c CalorieEntry) Deficit() float64 { return c.Burned - c.Eaten }

// Food is an entry in the built-in food database.
type Food struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Protein  float64 `json:"protein"`
	Calories float64 `json:"calories"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	Warning  string  `json:"warning,omitempty"`
}
