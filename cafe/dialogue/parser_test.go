package dialogue

import (
	"testing"

	"cafebot/cafe/catalog"
)

func testParser(t *testing.T) *Parser {
	t.Helper()
	cat, err := catalog.New([]catalog.Entry{
		{Name: "Кофе", Price: 200},
		{Name: "Чай", Price: 150},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return NewParser(cat)
}

func TestParseButtons(t *testing.T) {
	p := testParser(t)
	cases := []struct {
		in   string
		want CommandKind
	}{
		{"❌ Отмена", KindCancel},
		{"отмена", KindCancel},
		{"/cancel", KindCancel},
		{"✅ Подтвердить", KindConfirm},
		{"да", KindConfirm},
		{"📋 Бронь столика", KindBookTable},
		{"❓ Помощь", KindHelp},
		{"помощь", KindHelp},
	}
	for _, tc := range cases {
		if got := p.Parse(tc.in).Kind; got != tc.want {
			t.Errorf("Parse(%q).Kind = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseMenuLabelAndBareName(t *testing.T) {
	p := testParser(t)

	cmd := p.Parse("Кофе — 200₽")
	if cmd.Kind != KindSelectItem || cmd.Item.Name != "Кофе" || cmd.Item.Price != 200 {
		t.Fatalf("label parse = %+v", cmd)
	}

	cmd = p.Parse("Чай")
	if cmd.Kind != KindSelectItem || cmd.Item.Name != "Чай" || cmd.Item.Price != 150 {
		t.Fatalf("bare name parse = %+v", cmd)
	}
}

func TestParseQuantities(t *testing.T) {
	p := testParser(t)

	cmd := p.Parse("2")
	if cmd.Kind != KindSetQuantity || cmd.Quantity != 2 {
		t.Fatalf("parse 2 = %+v", cmd)
	}

	cmd = p.Parse("3+")
	if cmd.Kind != KindSetQuantity || cmd.Quantity != 3 {
		t.Fatalf("parse 3+ = %+v", cmd)
	}

	// Out-of-range stays a quantity; the engine enforces bounds.
	cmd = p.Parse("7")
	if cmd.Kind != KindSetQuantity || cmd.Quantity != 7 {
		t.Fatalf("parse 7 = %+v", cmd)
	}
}

func TestParseUnknownKeepsText(t *testing.T) {
	p := testParser(t)
	cmd := p.Parse("  05.09 19:30  ")
	if cmd.Kind != KindUnknown {
		t.Fatalf("kind = %v, want unknown", cmd.Kind)
	}
	if cmd.Text != "05.09 19:30" {
		t.Fatalf("text = %q, want trimmed original", cmd.Text)
	}
}
