package notify

import "testing"

func TestRecorderAndFanout(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	var n Notifier = Fanout{a, b, Discard{}}

	n.Toast(Success, "Item added")
	n.Toast(Warning, "Saved locally")
	n.Changed("grocery_item", "created", "item-1")

	for _, r := range []*Recorder{a, b} {
		if got := r.Count(Warning); got != 1 {
			t.Errorf("warnings = %d, want 1", got)
		}
		if got := len(r.Toasts()); got != 2 {
			t.Errorf("toasts = %d, want 2", got)
		}
		changes := r.Changes()
		if len(changes) != 1 || changes[0] != (Change{"grocery_item", "created", "item-1"}) {
			t.Errorf("changes = %+v", changes)
		}
	}
}
