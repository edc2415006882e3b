package model

import "time"

// User is an entry in the local user directory.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	AvatarURL    string `json:"avatarUrl"`
}

// Public returns the directory entry without credentials.
func (u User) Public(loggedIn bool) CurrentUser {
	return CurrentUser{
		ID:         u.ID,
		Username:   u.Username,
		AvatarURL:  u.AvatarURL,
		IsLoggedIn: loggedIn,
		Email:      u.Email,
	}
}

// CurrentUser is the signed-in identity persisted apart from the directory.
type CurrentUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	AvatarURL  string `json:"avatarUrl"`
	IsLoggedIn bool   `json:"isLoggedIn"`
	Email      string `json:"email,omitempty"`
}

// Friend is a one-directional edge from the current user to another user.
type Friend struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
	Email     string `json:"email,omitempty"`
}

// APILogEntry records one remote call for diagnostics.
type APILogEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestData  any       `json:"requestData,omitempty"`
	ResponseData any       `json:"responseData,omitempty"`
}
