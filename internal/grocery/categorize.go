package grocery

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dukerupert/grocerymate/internal/model"
)

// Categorize guesses the shelf for an item name. Exact names win, then the
// longest keyword contained in the name. Unknown names are Other.
func Categorize(itemName string) model.Category {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return model.CategoryOther
	}
	if c, ok := exactNames[name]; ok {
		return c
	}
	for _, r := range keywordRules {
		if strings.Contains(name, r.keyword) {
			return r.category
		}
	}
	return model.CategoryOther
}

var exactNames = index(map[model.Category][]string{
	model.CategoryProduce: {
		"apples", "bananas", "oranges", "lemon", "lemons", "lime", "limes",
		"avocado", "avocados", "tomatoes", "potatoes", "garlic", "broccoli",
		"cucumber", "cucumbers", "mushrooms", "corn", "grapes", "watermelon",
		"pineapple", "mango", "peach", "peaches", "pear", "pears", "cilantro",
		"basil", "parsley", "ginger", "zucchini", "asparagus", "green beans",
	},
	model.CategoryDairy: {
		"eggs", "half and half",
	},
	model.CategoryMeat: {
		"beef", "pork", "turkey", "bacon", "sausage", "ham", "steak", "salmon",
		"shrimp", "tuna", "fish", "lamb", "crab", "lobster", "tilapia",
	},
	model.CategoryBakery: {
		"pita",
	},
	model.CategoryPantry: {
		"salt", "oil", "vinegar", "ketchup", "mustard", "mayonnaise", "honey",
		"jelly", "jam", "nuts", "almonds", "spaghetti", "salsa",
		"water", "coffee", "soda", "beer", "wine", "kombucha", "lemonade",
		"chips", "crackers", "candy",
	},
	model.CategoryOther: {
		"napkins", "bleach", "soap", "floss", "batteries",
	},
})

func index(groups map[model.Category][]string) map[string]model.Category {
	out := make(map[string]model.Category)
	for c, names := range groups {
		for _, n := range names {
			out[n] = c
		}
	}
	return out
}

type keywordRule struct {
	keyword  string
	category model.Category
}

var keywordRules = byLength([]keywordRule{
	{"frozen", model.CategoryFrozen},
	{"ice cream", model.CategoryFrozen},
	{"popsicle", model.CategoryFrozen},
	{"waffle", model.CategoryFrozen},

	{"chicken", model.CategoryMeat},
	{"ground beef", model.CategoryMeat},
	{"ground turkey", model.CategoryMeat},
	{"deli meat", model.CategoryMeat},
	{"pork chop", model.CategoryMeat},
	{"hot dog", model.CategoryMeat},
	{"steak", model.CategoryMeat},
	{"salmon", model.CategoryMeat},
	{"fillet", model.CategoryMeat},

	{"chocolate milk", model.CategoryDairy},
	{"almond milk", model.CategoryDairy},
	{"oat milk", model.CategoryDairy},
	{"yogurt", model.CategoryDairy},
	{"cheese", model.CategoryDairy},
	{"milk", model.CategoryDairy},
	{"butter", model.CategoryDairy},
	{"cream", model.CategoryDairy},
	{"egg", model.CategoryDairy},

	{"salad", model.CategoryProduce},
	{"eggplant", model.CategoryProduce},
	{"spinach", model.CategoryProduce},
	{"green onion", model.CategoryProduce},
	{"sweet potato", model.CategoryProduce},
	{"bell pepper", model.CategoryProduce},
	{"romaine", model.CategoryProduce},
	{"arugula", model.CategoryProduce},
	{"cabbage", model.CategoryProduce},
	{"cauliflower", model.CategoryProduce},
	{"squash", model.CategoryProduce},
	{"melon", model.CategoryProduce},
	{"berry", model.CategoryProduce},
	{"berries", model.CategoryProduce},
	{"fruit", model.CategoryProduce},
	{"herb", model.CategoryProduce},
	{"lettuce", model.CategoryProduce},
	{"kale", model.CategoryProduce},
	{"apple", model.CategoryProduce},
	{"banana", model.CategoryProduce},
	{"orange", model.CategoryProduce},
	{"tomato", model.CategoryProduce},
	{"potato", model.CategoryProduce},
	{"onion", model.CategoryProduce},
	{"pepper", model.CategoryProduce},
	{"carrot", model.CategoryProduce},
	{"celery", model.CategoryProduce},

	{"sourdough", model.CategoryBakery},
	{"bread", model.CategoryBakery},
	{"bagel", model.CategoryBakery},
	{"tortilla", model.CategoryBakery},
	{"bun", model.CategoryBakery},
	{"roll", model.CategoryBakery},
	{"muffin", model.CategoryBakery},
	{"croissant", model.CategoryBakery},
	{"cake", model.CategoryBakery},

	{"peanut butter", model.CategoryPantry},
	{"olive oil", model.CategoryPantry},
	{"coconut oil", model.CategoryPantry},
	{"maple syrup", model.CategoryPantry},
	{"tomato sauce", model.CategoryPantry},
	{"canned", model.CategoryPantry},
	{"cereal", model.CategoryPantry},
	{"oatmeal", model.CategoryPantry},
	{"granola", model.CategoryPantry},
	{"rice", model.CategoryPantry},
	{"pasta", model.CategoryPantry},
	{"noodle", model.CategoryPantry},
	{"flour", model.CategoryPantry},
	{"sugar", model.CategoryPantry},
	{"spice", model.CategoryPantry},
	{"seasoning", model.CategoryPantry},
	{"sauce", model.CategoryPantry},
	{"broth", model.CategoryPantry},
	{"stock", model.CategoryPantry},
	{"soup", model.CategoryPantry},
	{"bean", model.CategoryPantry},
	{"lentil", model.CategoryPantry},
	{"orange juice", model.CategoryPantry},
	{"apple juice", model.CategoryPantry},
	{"juice", model.CategoryPantry},
	{"sparkling water", model.CategoryPantry},
	{"coffee", model.CategoryPantry},
	{"tea", model.CategoryPantry},
	{"chip", model.CategoryPantry},
	{"cracker", model.CategoryPantry},
	{"cookie", model.CategoryPantry},
	{"popcorn", model.CategoryPantry},
	{"pretzel", model.CategoryPantry},
	{"chocolate", model.CategoryPantry},
	{"trail mix", model.CategoryPantry},
	{"snack", model.CategoryPantry},

	{"paper towel", model.CategoryOther},
	{"toilet paper", model.CategoryOther},
	{"trash bag", model.CategoryOther},
	{"dish soap", model.CategoryOther},
	{"laundry", model.CategoryOther},
	{"detergent", model.CategoryOther},
	{"cleaner", model.CategoryOther},
	{"sponge", model.CategoryOther},
	{"foil", model.CategoryOther},
	{"shampoo", model.CategoryOther},
	{"toothpaste", model.CategoryOther},
	{"deodorant", model.CategoryOther},
	{"sunscreen", model.CategoryOther},
})

// byLength orders rules longest keyword first, keeping declaration order
// among equal lengths.
func byLength(rules []keywordRule) []keywordRule {
	slices.SortStableFunc(rules, func(a, b keywordRule) int {
		return cmp.Compare(len(b.keyword), len(a.keyword))
	})
	return rules
}
