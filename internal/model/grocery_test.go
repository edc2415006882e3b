package model

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input  string
		want   Category
		wantOK bool
	}{
		{"Produce", CategoryProduce, true},
		{"dairy", CategoryDairy, true},
		{"  MEAT ", CategoryMeat, true},
		{"all", CategoryAll, true},
		{"Beverages", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseCategory(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
		if !c.ValidFilter() {
			t.Errorf("%q should be a valid filter", c)
		}
	}
	if CategoryAll.Valid() {
		t.Error("All must not be valid on an item")
	}
	if !CategoryAll.ValidFilter() {
		t.Error("All must be a valid filter")
	}
	if Category("Snacks").ValidFilter() {
		t.Error("unknown category must not be a valid filter")
	}
}

func TestUserPublicOmitsPassword(t *testing.T) {
	u := User{ID: "u1", Username: "alice", Email: "a@example.com", PasswordHash: "secret", AvatarURL: "x"}
	pub := u.Public(true)
	if pub.ID != "u1" || pub.Username != "alice" || pub.Email != "a@example.com" || !pub.IsLoggedIn {
		t.Errorf("unexpected public view: %+v", pub)
	}
}
