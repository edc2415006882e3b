// Package local keeps the client's collections as JSON documents in a
// key/value storage, keyed the same way the browser client keyed local storage.
package local

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dukerupert/grocerymate/internal/model"
)

// Storage keys.
const (
	UsersKey       = "groceryAppUsers"
	CurrentUserKey = "groceryUser"
	APILogsKey     = "apiLogs"
	UserEmailKey   = "userEmail"
)

func ItemsKey(userID string) string   { return "groceryItems_" + userID }
func FriendsKey(userID string) string { return "groceryFriends_" + userID }

// ErrCorrupt is returned when a stored document cannot be decoded.
var ErrCorrupt = errors.New("corrupt stored value")

// Storage is a flat byte store. Get returns nil, nil for a missing key.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Adapter reads and writes whole collections. Writes always replace the
// full document for a key.
type Adapter struct {
	storage Storage
	logMu   sync.Mutex
}

func NewAdapter(s Storage) *Adapter {
	return &Adapter{storage: s}
}

func (a *Adapter) load(key string, v any) (bool, error) {
	data, err := a.storage.Get(key)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

func (a *Adapter) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return a.storage.Set(key, data)
}

func (a *Adapter) Items(userID string) ([]model.GroceryItem, error) {
	var items []model.GroceryItem
	if _, err := a.load(ItemsKey(userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (a *Adapter) SaveItems(userID string, items []model.GroceryItem) error {
	if items == nil {
		items = []model.GroceryItem{}
	}
	return a.save(ItemsKey(userID), items)
}

func (a *Adapter) Friends(userID string) ([]model.Friend, error) {
	var friends []model.Friend
	if _, err := a.load(FriendsKey(userID), &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

func (a *Adapter) SaveFriends(userID string, friends []model.Friend) error {
	if friends == nil {
		friends = []model.Friend{}
	}
	return a.save(FriendsKey(userID), friends)
}

// Users returns the user directory. found is false when nothing was stored yet.
func (a *Adapter) Users() (users []model.User, found bool, err error) {
	found, err = a.load(UsersKey, &users)
	return users, found, err
}

func (a *Adapter) SaveUsers(users []model.User) error {
	return a.save(UsersKey, users)
}

// CurrentUser returns the persisted signed-in user, or nil.
func (a *Adapter) CurrentUser() (*model.CurrentUser, error) {
	var u model.CurrentUser
	found, err := a.load(CurrentUserKey, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (a *Adapter) SaveCurrentUser(u model.CurrentUser) error {
	return a.save(CurrentUserKey, u)
}

func (a *Adapter) ClearCurrentUser() error {
	return a.storage.Delete(CurrentUserKey)
}

// UserEmail is stored as a bare string, not JSON.
func (a *Adapter) UserEmail() (string, error) {
	data, err := a.storage.Get(UserEmailKey)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (a *Adapter) SetUserEmail(email string) error {
	if email == "" {
		return a.storage.Delete(UserEmailKey)
	}
	return a.storage.Set(UserEmailKey, []byte(email))
}

// AppendAPILog adds an entry to the diagnostic trail. A corrupt trail is
// restarted rather than blocking the append.
func (a *Adapter) AppendAPILog(entry model.APILogEntry) error {
	a.logMu.Lock()
	defer a.logMu.Unlock()

	logs, err := a.APILogs()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	logs = append(logs, entry)
	return a.save(APILogsKey, logs)
}

func (a *Adapter) APILogs() ([]model.APILogEntry, error) {
	var logs []model.APILogEntry
	if _, err := a.load(APILogsKey, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
