package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dukerupert/grocerymate/internal/model"
)

// Client exposes the backend's REST routes as typed calls over a Facade.
type Client struct {
	facade Facade
}

func NewClient(f Facade) *Client {
	return &Client{facade: f}
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	env := c.facade.Call(ctx, Request{Endpoint: endpoint, Method: method, Payload: payload})
	if err := env.Err(); err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	if out != nil {
		if err := env.Decode(out); err != nil {
			return fmt.Errorf("%s %s: %w", method, endpoint, err)
		}
	}
	return nil
}

func userPath(userID string) string {
	return "/api/users/" + url.PathEscape(userID)
}

type registration struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}

// RegisterUser announces a newly signed-up user. The password never leaves the process.
func (c *Client) RegisterUser(ctx context.Context, u model.User) error {
	return c.do(ctx, http.MethodPost, "/api/users", registration{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}, nil)
}

type sessionRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}

func (c *Client) Login(ctx context.Context, userID, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/login", sessionRequest{UserID: userID, Email: email}, nil)
}

func (c *Client) Logout(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", sessionRequest{UserID: userID}, nil)
}

func (c *Client) Items(ctx context.Context, userID string) ([]model.GroceryItem, error) {
	var items []model.GroceryItem
	if err := c.do(ctx, http.MethodGet, userPath(userID)+"/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) AddItem(ctx context.Context, item model.GroceryItem) error {
	return c.do(ctx, http.MethodPost, userPath(item.UserID)+"/items", item, nil)
}

func (c *Client) UpdateItem(ctx context.Context, item model.GroceryItem) error {
	return c.do(ctx, http.MethodPut, userPath(item.UserID)+"/items/"+url.PathEscape(item.ID), item, nil)
}

type statusUpdate struct {
	Completed bool `json:"completed"`
}

func (c *Client) UpdateItemStatus(ctx context.Context, userID, itemID string, completed bool) error {
	endpoint := userPath(userID) + "/items/" + url.PathEscape(itemID) + "/status"
	return c.do(ctx, http.MethodPut, endpoint, statusUpdate{Completed: completed}, nil)
}

func (c *Client) DeleteItem(ctx context.Context, userID, itemID string) error {
	return c.do(ctx, http.MethodDelete, userPath(userID)+"/items/"+url.PathEscape(itemID), nil, nil)
}

func (c *Client) Friends(ctx context.Context, userID string) ([]model.Friend, error) {
	var friends []model.Friend
	if err := c.do(ctx, http.MethodGet, userPath(userID)+"/friends", nil, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

func (c *Client) AddFriend(ctx context.Context, userID string, f model.Friend) error {
	return c.do(ctx, http.MethodPost, userPath(userID)+"/friends", f, nil)
}

func (c *Client) RemoveFriend(ctx context.Context, userID, friendID string) error {
	return c.do(ctx, http.MethodDelete, userPath(userID)+"/friends/"+url.PathEscape(friendID), nil, nil)
}
