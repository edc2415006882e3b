package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dukerupert/grocerymate/internal/completion"
	"github.com/dukerupert/grocerymate/internal/model"
	"github.com/dukerupert/grocerymate/internal/notify"
)

func TestRespondListSummary(t *testing.T) {
	items := []model.GroceryItem{
		{Name: "Milk", Price: 2.50},
		{Name: "Bread", Price: 3.00},
	}
	got := Respond("What's on my grocery list?", items, English)

	want := "I took a peek at your grocery list and found: Milk ($2.50), Bread ($3.00). Your current total comes to $5.50. Is there anything specific you'd like to know about these items?"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestRespondEmptyList(t *testing.T) {
	got := Respond("show me my shopping", nil, English)
	if got != emptyListAnswer {
		t.Errorf("got %q", got)
	}
}

func TestRespondAppleWithoutItems(t *testing.T) {
	got := Respond("apple", nil, English)

	if !strings.HasPrefix(got, "I love apples!") {
		t.Errorf("expected apple fact, got %q", got)
	}
	if strings.Contains(got, "already") || strings.Contains(got, "on your list for") {
		t.Errorf("unexpected list framing: %q", got)
	}
	if !strings.HasSuffix(got, "Would you like to add this to your grocery list?") {
		t.Errorf("expected add invitation, got %q", got)
	}
}

func TestRespondDispatch(t *testing.T) {
	items := []model.GroceryItem{
		{Name: "Green Apples", Price: 4},
		{Name: "Quinoa", Price: 6.5},
		{Name: "Whole Milk", Price: 2.25},
	}

	tests := []struct {
		name   string
		query  string
		prefix string
	}{
		{"item with known fact", "tell me about green apples", "I see you have Green Apples on your list for $4.00. I love apples!"},
		{"item without fact", "is QUINOA good?", "I noticed you have Quinoa on your list for $6.50."},
		{"known food already on list", "how much milk should I drink", "Great news! You already have Whole Milk on your list for $2.25. Milk is so nourishing!"},
		{"known food not on list", "salmon dinner ideas", "Salmon is fantastic for heart health!"},
		{"calorie topic", "how many calories per day", "Calories are basically your body's fuel!"},
		{"protein topic", "protein sources", "Protein is amazing for your body!"},
		{"carb topic", "are carbs bad", "Carbs are your body's favorite energy source!"},
		{"fat topic", "is fat bad", "Healthy fats are essential"},
		{"vitamin topic", "vitamin d", "Vitamins are like little health superheroes"},
		{"mineral topic", "which mineral", "Minerals are essential nutrients"},
		{"weight loss topic", "tips for weight loss", "The best approach to healthy eating"},
		{"default", "hello there", "I don't have specific information about that food"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Respond(tt.query, items, English)
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("Respond(%q) = %q, want prefix %q", tt.query, got, tt.prefix)
			}
		})
	}
}

func TestRespondListBeatsItems(t *testing.T) {
	items := []model.GroceryItem{{Name: "Milk", Price: 1}}
	got := Respond("is milk on my list", items, English)
	if !strings.HasPrefix(got, "I took a peek") {
		t.Errorf("list keyword must win, got %q", got)
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apple and MILK", "स्याउ and दूध"},
		{"pineapple", "pineapple"},
		{"grocery list items", "किराना सूची सामानहरू"},
		{"Healthy fats", "स्वस्थ fats"},
	}
	for _, tt := range tests {
		if got := Translate(tt.in, Nepali); got != tt.want {
			t.Errorf("Translate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Translate("Apple", English); got != "Apple" {
		t.Errorf("English must be identity, got %q", got)
	}
}

func TestRespondNepali(t *testing.T) {
	got := Respond("apple", nil, Nepali)
	if !strings.Contains(got, "माया") || !strings.Contains(got, "किराना") {
		t.Errorf("expected substituted words, got %q", got)
	}
}

func TestParseLang(t *testing.T) {
	if ParseLang("NP") != Nepali || ParseLang("ne") != Nepali {
		t.Error("expected Nepali")
	}
	if ParseLang("") != English || ParseLang("fr") != English {
		t.Error("expected English default")
	}
}

type stubCompleter struct {
	reply string
	err   error
	got   []completion.Message
}

func (s *stubCompleter) Complete(ctx context.Context, msgs []completion.Message) (string, error) {
	s.got = msgs
	return s.reply, s.err
}

func TestAssistantUsesCompletion(t *testing.T) {
	c := &stubCompleter{reply: "About 95 calories."}
	a := NewAssistant(c, nil, nil)

	history := []completion.Message{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}}
	r := a.Ask(context.Background(), history, "apple?", nil, Nepali)
	if r.Fallback || r.Content != "About 95 calories." {
		t.Errorf("reply = %+v", r)
	}
	if len(c.got) != 4 || c.got[0].Role != "system" || c.got[3].Content != "apple?" {
		t.Errorf("messages = %+v", c.got)
	}
	if c.got[0].Content != PhrasesFor(Nepali).systemPrompt {
		t.Error("expected Nepali system prompt")
	}
}

func TestAssistantFallsBack(t *testing.T) {
	tests := []struct {
		name      string
		completer Completer
		wantToast bool
	}{
		{"no completer", nil, false},
		{"not configured", &stubCompleter{err: completion.ErrNotConfigured}, false},
		{"insufficient balance", &stubCompleter{err: completion.ErrInsufficientBalance}, false},
		{"api failure", &stubCompleter{err: errors.New("boom")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &notify.Recorder{}
			a := NewAssistant(tt.completer, rec, nil)
			items := []model.GroceryItem{{Name: "Milk", Price: 2.5}, {Name: "Bread", Price: 3}}

			r := a.Ask(context.Background(), nil, "What's on my grocery list?", items, English)
			if !r.Fallback || !strings.Contains(r.Content, "$5.50") {
				t.Errorf("reply = %+v", r)
			}
			if got := rec.Count(notify.Error) == 1; got != tt.wantToast {
				t.Errorf("toast = %v, want %v", got, tt.wantToast)
			}
		})
	}
}
