package catalog

import (
	"errors"
	"testing"
)

func TestNewRejectsBadEntries(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
	}{
		{"empty list", nil},
		{"empty name", []Entry{{Name: "", Price: 100}}},
		{"zero price", []Entry{{Name: "Чай", Price: 0}}},
		{"negative price", []Entry{{Name: "Чай", Price: -50}}},
		{"duplicate name", []Entry{{Name: "Чай", Price: 100}, {Name: "Чай", Price: 200}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.entries); err == nil {
				t.Fatalf("expected error for %v", tc.entries)
			}
		})
	}
}

func TestPriceOf(t *testing.T) {
	c, err := New([]Entry{{Name: "Кофе", Price: 200}, {Name: "Чай", Price: 150}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	p, err := c.PriceOf("Кофе")
	if err != nil {
		t.Fatalf("price of Кофе: %v", err)
	}
	if p != 200 {
		t.Fatalf("price = %d, want 200", p)
	}

	if _, err := c.PriceOf("Пицца"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupByLabel(t *testing.T) {
	c, err := New([]Entry{{Name: "Капучино", Price: 250}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	e, ok := c.Lookup("Капучино — 250₽")
	if !ok {
		t.Fatal("expected lookup hit")
	}
	if e.Name != "Капучино" || e.Price != 250 {
		t.Fatalf("entry = %+v", e)
	}

	if _, ok := c.Lookup("Капучино"); ok {
		t.Fatal("plain name must not match a label")
	}
}

func TestItemsAndLabelsKeepOrder(t *testing.T) {
	in := []Entry{
		{Name: "Эспрессо", Price: 150},
		{Name: "Латте", Price: 250},
		{Name: "Чизкейк", Price: 320},
	}
	c, err := New(in)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	items := c.Items()
	if len(items) != len(in) {
		t.Fatalf("items len = %d, want %d", len(items), len(in))
	}
	for i := range in {
		if items[i] != in[i] {
			t.Fatalf("items[%d] = %+v, want %+v", i, items[i], in[i])
		}
	}

	labels := c.Labels()
	want := []string{"Эспрессо — 150₽", "Латте — 250₽", "Чизкейк — 320₽"}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	c, _ := New([]Entry{{Name: "Чай", Price: 150}})
	items := c.Items()
	items[0].Price = 1

	p, err := c.PriceOf("Чай")
	if err != nil || p != 150 {
		t.Fatalf("catalog mutated through Items(): price=%d err=%v", p, err)
	}
}
