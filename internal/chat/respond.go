// Package chat answers nutrition questions. Respond is a keyword responder
// used whenever the completion service cannot answer.
package chat

import (
	"fmt"
	"strings"

	"github.com/dukerupert/grocerymate/internal/model"
)

// Respond maps a query and the current list to an answer. The first
// matching rule wins: list summary, an item on the list, a known food,
// a nutrition topic, then a default paragraph.
func Respond(query string, items []model.GroceryItem, lang Lang) string {
	return Translate(respond(strings.ToLower(query), items), lang)
}

func respond(q string, items []model.GroceryItem) string {
	if containsAny(q, listKeywords) {
		return summarize(items)
	}

	for _, it := range items {
		name := strings.ToLower(it.Name)
		if name == "" || !strings.Contains(q, name) {
			continue
		}
		if fact, ok := factFor(name); ok {
			return fmt.Sprintf("I see you have %s on your list for $%.2f. %s Would you like to know more about planning meals with this ingredient?", it.Name, it.Price, fact)
		}
		return fmt.Sprintf("I noticed you have %s on your list for $%.2f. While I don't have specific nutritional details for this item, I'd be happy to look up more information if you're curious about it!", it.Name, it.Price)
	}

	for _, nf := range nutritionFacts {
		if !strings.Contains(q, nf.food) {
			continue
		}
		if it, ok := itemFor(nf.food, items); ok {
			return fmt.Sprintf("Great news! You already have %s on your list for $%.2f. %s", it.Name, it.Price, nf.fact)
		}
		return nf.fact + " Would you like to add this to your grocery list?"
	}

	for _, t := range topics {
		if containsAny(q, t.keywords) {
			return t.text
		}
	}
	return defaultAnswer
}

func summarize(items []model.GroceryItem) string {
	if len(items) == 0 {
		return emptyListAnswer
	}
	parts := make([]string, len(items))
	var total float64
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s ($%.2f)", it.Name, it.Price)
		total += it.Price
	}
	return fmt.Sprintf("I took a peek at your grocery list and found: %s. Your current total comes to $%.2f. Is there anything specific you'd like to know about these items?", strings.Join(parts, ", "), total)
}

// matches reports whether a food and a lower-cased item name refer to the
// same thing, in either direction.
func matches(food, name string) bool {
	return strings.Contains(name, food) || strings.Contains(food, name)
}

func factFor(name string) (string, bool) {
	for _, nf := range nutritionFacts {
		if matches(nf.food, name) {
			return nf.fact, true
		}
	}
	return "", false
}

func itemFor(food string, items []model.GroceryItem) (model.GroceryItem, bool) {
	for _, it := range items {
		name := strings.ToLower(it.Name)
		if name != "" && matches(food, name) {
			return it, true
		}
	}
	return model.GroceryItem{}, false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
