package nutrition

import "github.com/theirongolddev/zenith/internal/model"

// FoodDatabaseProteinGoal is the daily target the food table was built around.
const FoodDatabaseProteinGoal = 90

// CalorieGoal is the daily intake ceiling while cutting.
const CalorieGoal = 1800

var foods = []model.Food{
	{Key: "egg_whole", Name: "Boiled Egg (Whole)", Protein: 6, Calories: 70, Unit: "1 egg", Category: "eggs"},
	{Key: "egg_white", Name: "Egg White Only", Protein: 3.5, Calories: 17, Unit: "1 egg", Category: "eggs"},
	{Key: "chicken_tikka", Name: "Chicken Tikka", Protein: 25, Calories: 300, Unit: "4 pieces", Category: "chicken"},
	{Key: "grilled_chicken_qtr", Name: "Grilled Chicken (Quarter)", Protein: 28, Calories: 260, Unit: "1 quarter leg", Category: "chicken"},
	{Key: "mandi_meat_only", Name: "Mandi Chicken (Meat Only)", Protein: 28, Calories: 280, Unit: "1 piece", Category: "chicken"},
	{Key: "mandi_full_plate", Name: "Mandi (Full Plate)", Protein: 30, Calories: 900, Unit: "1 plate", Category: "danger", Warning: "High calorie! Eat meat, skip 50% rice"},
	{Key: "biryani_chicken", Name: "Chicken Biryani", Protein: 25, Calories: 800, Unit: "1 portion", Category: "danger", Warning: "Treat meal only!"},
	{Key: "dragon_chicken", Name: "Dragon Chicken", Protein: 18, Calories: 450, Unit: "1 dry portion", Category: "danger", Warning: "Fried + sugar sauces"},
	{Key: "mayonnaise", Name: "Mayonnaise", Protein: 0, Calories: 100, Unit: "1 tbsp", Category: "danger", Warning: "Pure fat - avoid!"},
	{Key: "greek_yogurt", Name: "Greek Yogurt", Protein: 7, Calories: 90, Unit: "100g cup", Category: "dairy"},
	{Key: "chapati", Name: "Chapati/Roti", Protein: 3, Calories: 100, Unit: "1 piece", Category: "carbs"},
	{Key: "idly", Name: "Idly", Protein: 2, Calories: 40, Unit: "1 piece", Category: "carbs"},
	{Key: "banana", Name: "Banana", Protein: 1, Calories: 105, Unit: "1 medium", Category: "fruits"},
}

// QuickAddFoods are the most used entries, in button order.
var QuickAddFoods = []string{
	"egg_whole", "chicken_tikka", "grilled_chicken_qtr", "egg_white", "banana", "greek_yogurt",
}

// Foods returns the food database in display order.
func Foods() []model.Food {
	return append([]model.Food(nil), foods...)
}

// FoodByKey looks up a food.
func FoodByKey(key string) (model.Food, bool) {
	for _, f := range foods {
		if f.Key == key {
			return f, true
		}
	}
	return model.Food{}, false
}
