package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/grocerymate/internal/grocery"
	"github.com/dukerupert/grocerymate/internal/model"
)

type GroceryHandler struct {
	groceries *grocery.Store
	logger    *slog.Logger
}

func NewGroceryHandler(gs *grocery.Store, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{groceries: gs, logger: componentLogger(logger, "grocery_handler")}
}

type itemRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type itemsResponse struct {
	Items            []model.GroceryItem `json:"items"`
	SelectedCategory model.Category      `json:"selected_category"`
	Categories       []model.Category    `json:"categories"`
	Total            int                 `json:"total"`
}

// parseItemCategory resolves the requested category. An empty one is
// derived from the item name.
func parseItemCategory(raw, name string) (model.Category, bool) {
	if strings.TrimSpace(raw) == "" {
		return grocery.Categorize(name), true
	}
	c, ok := model.ParseCategory(raw)
	if !ok || c == model.CategoryAll {
		return "", false
	}
	return c, true
}

func (h *GroceryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	view, err := h.groceries.View()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to list items")
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{
		Items:            view.Filtered,
		SelectedCategory: view.Selected,
		Categories:       append([]model.Category{model.CategoryAll}, model.Categories...),
		Total:            len(view.Items),
	})
}

func (h *GroceryHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	c, ok := model.ParseCategory(req.Category)
	if !ok {
		writeError(w, http.StatusBadRequest, grocery.ErrInvalidCategory.Error())
		return
	}
	if err := h.groceries.SetSelectedCategory(c); err != nil {
		writeStoreError(w, h.logger, err, "failed to set filter")
		return
	}
	h.ListItems(w, r)
}

func (h *GroceryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	category, ok := parseItemCategory(req.Category, req.Name)
	if !ok {
		writeError(w, http.StatusBadRequest, grocery.ErrInvalidCategory.Error())
		return
	}

	item, err := h.groceries.AddItem(r.Context(), req.Name, category, req.Price)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to create item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *GroceryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := r.PathValue("id")

	// An edit without a category keeps the item's current one.
	var category model.Category
	if strings.TrimSpace(req.Category) == "" {
		current, err := h.currentItem(id)
		if err != nil {
			writeStoreError(w, h.logger, err, "failed to update item")
			return
		}
		if current == nil {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		category = current.Category
	} else {
		c, ok := parseItemCategory(req.Category, req.Name)
		if !ok {
			writeError(w, http.StatusBadRequest, grocery.ErrInvalidCategory.Error())
			return
		}
		category = c
	}

	item, err := h.groceries.EditItem(r.Context(), id, req.Name, category, req.Price)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to update item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) currentItem(id string) (*model.GroceryItem, error) {
	items, err := h.groceries.Items()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (h *GroceryHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.groceries.ToggleItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to toggle item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.groceries.DeleteItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to delete item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GroceryHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	n, err := h.groceries.ClearCompletedItems(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to clear completed items")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

// Sync refreshes items and friends from the backend and returns the result.
func (h *GroceryHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if err := h.groceries.Sync(r.Context()); err != nil {
		writeStoreError(w, h.logger, err, "failed to sync")
		return
	}
	view, err := h.groceries.View()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to sync")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
