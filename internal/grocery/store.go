// Package grocery owns the signed-in user's items and friends. Every
// mutation is applied and persisted locally first; the backend is told
// afterwards and its failures never undo local state.
package grocery

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/grocerymate/internal/local"
	"github.com/dukerupert/grocerymate/internal/model"
	"github.com/dukerupert/grocerymate/internal/notify"
)

var (
	ErrNotSignedIn      = errors.New("not signed in")
	ErrEmptyName        = errors.New("item name is required")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPrice     = errors.New("price must be a non-negative number")
	ErrUnrecognizedItem = errors.New("item not recognized")
	ErrAlreadyFriends   = errors.New("you are already friends with this user")
	ErrUserNotFound     = errors.New("user does not exist")
	ErrCannotFriendSelf = errors.New("you cannot add yourself as a friend")
)

// Directory resolves the signed-in user and other users.
type Directory interface {
	CurrentUser() *model.CurrentUser
	FindUserByUsername(username string) *model.User
	FindUserByEmail(email string) *model.User
	FindUserByID(id string) *model.User
}

// Remote is the part of the backend the store reports to.
type Remote interface {
	Items(ctx context.Context, userID string) ([]model.GroceryItem, error)
	AddItem(ctx context.Context, item model.GroceryItem) error
	UpdateItem(ctx context.Context, item model.GroceryItem) error
	UpdateItemStatus(ctx context.Context, userID, itemID string, completed bool) error
	DeleteItem(ctx context.Context, userID, itemID string) error
	Friends(ctx context.Context, userID string) ([]model.Friend, error)
	AddFriend(ctx context.Context, userID string, f model.Friend) error
	RemoveFriend(ctx context.Context, userID, friendID string) error
}

// NameChecker reports whether an item name is a known food. Errors are
// treated as recognized.
type NameChecker interface {
	Recognized(ctx context.Context, name string) (bool, error)
}

type Store struct {
	local    *local.Adapter
	remote   Remote
	dir      Directory
	checker  NameChecker
	notifier notify.Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	userID   string
	items    []model.GroceryItem
	friends  []model.Friend
	selected model.Category

	pending sync.WaitGroup
}

type Option func(*Store)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

func WithNameChecker(c NameChecker) Option {
	return func(s *Store) {
		s.checker = c
	}
}

func NewStore(adapter *local.Adapter, r Remote, dir Directory, opts ...Option) *Store {
	s := &Store{
		local:    adapter,
		remote:   r,
		dir:      dir,
		notifier: notify.Discard{},
		logger:   slog.Default(),
		selected: model.CategoryAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wait blocks until every background remote call has finished.
func (s *Store) Wait() {
	s.pending.Wait()
}

func (s *Store) background(ctx context.Context, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		fn(ctx)
	}()
}

// ensureLocked makes the collections belong to the current user, reloading
// them from local storage after a user switch.
func (s *Store) ensureLocked() (string, error) {
	cur := s.dir.CurrentUser()
	if cur == nil {
		s.userID = ""
		s.items = nil
		s.friends = nil
		return "", ErrNotSignedIn
	}
	if cur.ID == s.userID {
		return s.userID, nil
	}

	items, err := s.local.Items(cur.ID)
	if errors.Is(err, local.ErrCorrupt) {
		s.logger.Warn("stored items unreadable, starting empty", "user_id", cur.ID, "error", err)
	} else if err != nil {
		return "", fmt.Errorf("load items: %w", err)
	}
	friends, err := s.local.Friends(cur.ID)
	if errors.Is(err, local.ErrCorrupt) {
		s.logger.Warn("stored friends unreadable, starting empty", "user_id", cur.ID, "error", err)
	} else if err != nil {
		return "", fmt.Errorf("load friends: %w", err)
	}

	s.userID = cur.ID
	s.items = items
	s.friends = friends
	return s.userID, nil
}

func validateItem(name string, category model.Category, price float64) error {
	if name == "" {
		return ErrEmptyName
	}
	if !category.Valid() {
		return ErrInvalidCategory
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return ErrInvalidPrice
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(it model.GroceryItem) bool { return it.ID == id })
}

func (s *Store) saveItemsLocked(items []model.GroceryItem) error {
	if err := s.local.SaveItems(s.userID, items); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	s.items = items
	return nil
}

func (s *Store) saveFriendsLocked(friends []model.Friend) error {
	if err := s.local.SaveFriends(s.userID, friends); err != nil {
		return fmt.Errorf("save friends: %w", err)
	}
	s.friends = friends
	return nil
}

// AddItem prepends a new, not completed item.
func (s *Store) AddItem(ctx context.Context, name string, category model.Category, price float64) (*model.GroceryItem, error) {
	name = strings.TrimSpace(name)
	if err := validateItem(name, category, price); err != nil {
		return nil, err
	}
	if s.checker != nil {
		ok, err := s.checker.Recognized(ctx, name)
		if err != nil {
			s.logger.Warn("item name check failed, allowing", "name", name, "error", err)
		} else if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnrecognizedItem, name)
		}
	}

	s.mu.Lock()
	userID, err := s.ensureLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	item := model.GroceryItem{
		ID:        "item-" + uuid.NewString(),
		Name:      name,
		Category:  category,
		Completed: false,
		Price:     price,
		CreatedAt: time.Now().UTC(),
		UserID:    userID,
	}
	items := append([]model.GroceryItem{item}, s.items...)
	if err := s.saveItemsLocked(items); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.logger.Info("item added", "user_id", userID, "item_id", item.ID, "name", name)
	s.notifier.Toast(notify.Success, fmt.Sprintf("Added %s to your list", name))
	s.notifier.Changed("grocery_item", "created", item.ID)

	s.background(ctx, func(ctx context.Context) {
		if err := s.remote.AddItem(ctx, item); err != nil {
			s.logger.Warn("remote add item failed", "item_id", item.ID, "error", err)
			s.notifier.Toast(notify.Warning, fmt.Sprintf("%s was saved on this device but not on the server", name))
		}
	})
	return &item, nil
}

// ToggleItem flips completed. An unknown id returns nil, nil.
func (s *Store) ToggleItem(ctx context.Context, id string) (*model.GroceryItem, error) {
	s.mu.Lock()
	userID, err := s.ensureLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, nil
	}
	items := slices.Clone(s.items)
	items[i].Completed = !items[i].Completed
	item := items[i]
	if err := s.saveItemsLocked(items); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.notifier.Changed("grocery_item", "updated", item.ID)

	s.background(ctx, func(ctx context.Context) {
		if err := s.remote.UpdateItemStatus(ctx, userID, item.ID, item.Completed); err != nil {
			s.logger.Warn("remote status update failed", "item_id", item.ID, "error", err)
		}
		if err := s.remote.UpdateItem(ctx, item); err != nil {
			s.logger.Warn("remote item update failed, updated locally", "item_id", item.ID, "error", err)
		}
	})
	return &item, nil
}

// EditItem replaces name, category and price. An unknown id returns nil, nil.
func (s *Store) EditItem(ctx context.Context, id, name string, category model.Category, price float64) (*model.GroceryItem, error) {
	name = strings.TrimSpace(name)
	if err := validateItem(name, category, price); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, err := s.ensureLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, nil
	}
	items := slices.Clone(s.items)
	items[i].Name = name
	items[i].Category = category
	items[i].Price = price
	item := items[i]
	if err := s.saveItemsLocked(items); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.notifier.Toast(notify.Success, fmt.Sprintf("Updated %s", name))
	s.notifier.Changed("grocery_item", "updated", item.ID)

	s.background(ctx, func(ctx context.Context) {
		if err := s.remote.UpdateItem(ctx, item); err != nil {
			s.logger.Warn("remote item update failed, updated locally", "item_id", item.ID, "error", err)
		}
	})
	return &item, nil
}

// DeleteItem removes an item and returns it, or nil when unknown. The
// remote delete is not awaited.
func (s *Store) DeleteItem(ctx context.Context, id string) (*model.GroceryItem, error) {
	s.mu.Lock()
	userID, err := s.ensureLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, nil
	}
	removed := s.items[i]
	items := slices.Delete(slices.Clone(s.items), i, i+1)
	if err := s.saveItemsLocked(items); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.notifier.Changed("grocery_item", "deleted", removed.ID)

	s.background(ctx, func(ctx context.Context) {
		if err := s.remote.DeleteItem(ctx, userID, removed.ID); err != nil {
			s.logger.Warn("remote delete failed", "item_id", removed.ID, "error", err)
		}
	})
	return &removed, nil
}

// ClearCompletedItems removes every completed item and waits for the remote
// deletes. It returns how many items were removed.
func (s *Store) ClearCompletedItems(ctx context.Context) (int, error) {
	s.mu.Lock()
	userID, err := s.ensureLocked()
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	var kept, removed []model.GroceryItem
	for _, it := range s.items {
		if it.Completed {
			removed = append(removed, it)
		} else {
			kept = append(kept, it)
		}
	}
	if len(removed) == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	if err := s.saveItemsLocked(kept); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.mu.Unlock()

	var failed atomic.Int32
	var g errgroup.Group
	g.SetLimit(4)
	for _, it := range removed {
		g.Go(func() error {
			if err := s.remote.DeleteItem(ctx, userID, it.ID); err != nil {
				failed.Add(1)
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("remote clear completed failed", "user_id", userID, "failed", failed.Load(), "error", err)
		s.notifier.Toast(notify.Warning, fmt.Sprintf("%d of %d items could not be removed from the server", failed.Load(), len(removed)))
	}

	s.notifier.Toast(notify.Info, "Cleared completed items")
	s.notifier.Changed("grocery_item", "cleared", "")
	return len(removed), nil
}

func (s *Store) resolveUser(candidate model.Friend) *model.User {
	if candidate.Username != "" {
		if u := s.dir.FindUserByUsername(candidate.Username); u != nil {
			return u
		}
	}
	if candidate.Email != "" {
		if u := s.dir.FindUserByEmail(candidate.Email); u != nil {
			return u
		}
	}
	if candidate.ID != "" {
		return s.dir.FindUserByID(candidate.ID)
	}
	return nil
}

func (s *Store) hasFriendLocked(id string) bool {
	return slices.ContainsFunc(s.friends, func(f model.Friend) bool { return f.ID == id })
}

// AddFriend resolves candidate against the directory by username, then
// email, then id, and appends the resolved user.
func (s *Store) AddFriend(ctx context.Context, candidate model.Friend) (*model.Friend, error) {
	s.mu.Lock()
	userID, err := s.ensureLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if candidate.ID != "" && s.hasFriendLocked(candidate.ID) {
		s.mu.Unlock()
		return nil, ErrAlreadyFriends
	}

	u := s.resolveUser(candidate)
	if u == nil {
		s.mu.Unlock()
		label := cmp.Or(candidate.Username, candidate.Email, candidate.ID)
		return nil, fmt.Errorf("%w: %q", ErrUserNotFound, label)
	}
	if u.ID == userID {
		s.mu.Unlock()
		return nil, ErrCannotFriendSelf
	}
	if s.hasFriendLocked(u.ID) {
		s.mu.Unlock()
		return nil, ErrAlreadyFriends
	}

	friend := model.Friend{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		Email:     u.Email,
	}
	friends := append(slices.Clone(s.friends), friend)
	if err := s.saveFriendsLocked(friends); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.logger.Info("friend added", "user_id", userID, "friend_id", friend.ID)
	s.notifier.Toast(notify.Success, fmt.Sprintf("%s added to your friends list!", friend.Username))
	s.notifier.Changed("friend", "created", friend.ID)

	s.background(ctx, func(ctx context.Context) {
		if err := s.remote.AddFriend(ctx, userID, friend); err != nil {
			s.logger.Warn("remote add friend failed", "friend_id", friend.ID, "error", err)
			s.notifier.Toast(notify.Warning, fmt.Sprintf("%s was added on this device but not on the server", friend.Username))
		}
	})
	return &friend, nil
}

// RemoveFriend drops a friend edge. An unknown id returns nil, nil.
func (s *Store) RemoveFriend(ctx context.Context, id string) (*model.Friend, error) {
	s.mu.Lock()
	userID, err := s.ensureLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	i := slices.IndexFunc(s.friends, func(f model.Friend) bool { return f.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return nil, nil
	}
	removed := s.friends[i]
	friends := slices.Delete(slices.Clone(s.friends), i, i+1)
	if err := s.saveFriendsLocked(friends); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.notifier.Toast(notify.Info, fmt.Sprintf("%s removed from your friends list", removed.Username))
	s.notifier.Changed("friend", "deleted", removed.ID)

	s.background(ctx, func(ctx context.Context) {
		if err := s.remote.RemoveFriend(ctx, userID, removed.ID); err != nil {
			s.logger.Warn("remote remove friend failed, removed locally", "friend_id", removed.ID, "error", err)
		}
	})
	return &removed, nil
}

// SetSelectedCategory changes the filter. All is accepted.
func (s *Store) SetSelectedCategory(c model.Category) error {
	if !c.ValidFilter() {
		return ErrInvalidCategory
	}
	s.mu.Lock()
	s.selected = c
	s.mu.Unlock()
	s.notifier.Changed("filter", "updated", string(c))
	return nil
}

func (s *Store) SelectedCategory() model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// View is a consistent read of the store.
type View struct {
	Items    []model.GroceryItem `json:"items"`
	Filtered []model.GroceryItem `json:"filtered"`
	Friends  []model.Friend      `json:"friends"`
	Selected model.Category      `json:"selected_category"`
}

func (s *Store) View() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ensureLocked(); err != nil {
		return View{}, err
	}
	return View{
		Items:    slices.Clone(s.items),
		Filtered: filter(s.items, s.selected),
		Friends:  slices.Clone(s.friends),
		Selected: s.selected,
	}, nil
}

func (s *Store) Items() ([]model.GroceryItem, error) {
	v, err := s.View()
	return v.Items, err
}

// FilteredItems returns the items in the selected category, in list order.
func (s *Store) FilteredItems() ([]model.GroceryItem, error) {
	v, err := s.View()
	return v.Filtered, err
}

func (s *Store) Friends() ([]model.Friend, error) {
	v, err := s.View()
	return v.Friends, err
}

func filter(items []model.GroceryItem, c model.Category) []model.GroceryItem {
	out := make([]model.GroceryItem, 0, len(items))
	for _, it := range items {
		if c == model.CategoryAll || it.Category == c {
			out = append(out, it)
		}
	}
	return out
}

// Sync replaces the local collections with the backend's. A failed or
// empty fetch keeps what is stored locally.
func (s *Store) Sync(ctx context.Context) error {
	s.mu.Lock()
	userID, err := s.ensureLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	items, itemsErr := s.remote.Items(ctx, userID)
	if itemsErr != nil {
		s.logger.Warn("fetch items failed, using local copy", "user_id", userID, "error", itemsErr)
		s.notifier.Toast(notify.Warning, "Failed to load your grocery items")
	}
	friends, friendsErr := s.remote.Friends(ctx, userID)
	if friendsErr != nil {
		s.logger.Warn("fetch friends failed, using local copy", "user_id", userID, "error", friendsErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, err := s.ensureLocked(); err != nil || cur != userID {
		// Signed out or switched user while fetching.
		return err
	}
	if itemsErr == nil && len(items) > 0 {
		for i := range items {
			items[i].UserID = userID
			if !items[i].Category.Valid() {
				items[i].Category = model.CategoryOther
			}
		}
		if err := s.saveItemsLocked(items); err != nil {
			return err
		}
	}
	if friendsErr == nil && len(friends) > 0 {
		if err := s.saveFriendsLocked(friends); err != nil {
			return err
		}
	}
	s.notifier.Changed("grocery_item", "synced", "")
	return nil
}
