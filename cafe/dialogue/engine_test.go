package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cafebot/cafe/catalog"
	"cafebot/cafe/notify"
	"cafebot/core/telegram/state"
)

type fakeNotifier struct {
	admin    []notify.AdminNotification
	bookings []notify.Booking
	receipts []notify.Receipt

	adminErr    error
	customerErr error
}

func (f *fakeNotifier) NotifyAdmin(_ context.Context, n notify.AdminNotification) error {
	f.admin = append(f.admin, n)
	return f.adminErr
}

func (f *fakeNotifier) NotifyBooking(_ context.Context, b notify.Booking) error {
	f.bookings = append(f.bookings, b)
	return nil
}

func (f *fakeNotifier) NotifyCustomer(_ context.Context, r notify.Receipt) error {
	f.receipts = append(f.receipts, r)
	return f.customerErr
}

func testEngine(t *testing.T, n *fakeNotifier) (*Engine, state.Store) {
	t.Helper()
	cat, err := catalog.New([]catalog.Entry{
		{Name: "Coffee", Price: 200},
		{Name: "Чай", Price: 150},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	store := state.NewMemoryStore(0)
	eng, err := New(Options{
		Catalog:     cat,
		Store:       store,
		Notifier:    n,
		CafeName:    "Кофейня",
		Phone:       "+7 (900) 000-00-00",
		MaxQuantity: 5,
		Now:         func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.Local) },
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return eng, store
}

func send(t *testing.T, e *Engine, userID int64, text string) []Reply {
	t.Helper()
	replies, err := e.HandleText(context.Background(), Message{
		UserID: userID, ChatID: userID, Text: text, DisplayName: "Ivan",
	})
	if err != nil {
		t.Fatalf("handle %q: %v", text, err)
	}
	return replies
}

func sessionStep(t *testing.T, store state.Store, userID int64) state.Step {
	t.Helper()
	s, err := store.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if s.Idle() {
		return state.StepIdle
	}
	return s.Step
}

func TestSelectItemMovesToQuantity(t *testing.T) {
	n := &fakeNotifier{}
	eng, store := testEngine(t, n)

	replies := send(t, eng, 1, "Coffee — 200₽")
	if len(replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(replies))
	}
	if !strings.Contains(replies[0].Text, "200₽") {
		t.Fatalf("prompt should carry the price: %q", replies[0].Text)
	}
	if replies[0].Markup != MarkupQuantity {
		t.Fatalf("markup = %v, want quantity keyboard", replies[0].Markup)
	}

	s, _ := store.Get(context.Background(), 1)
	if s.Step != state.StepQuantity {
		t.Fatalf("step = %q", s.Step)
	}
	if s.Draft == nil || s.Draft.Item != "Coffee" || s.Draft.UnitPrice != 200 {
		t.Fatalf("draft = %+v", s.Draft)
	}
}

func TestFullOrderWalkthrough(t *testing.T) {
	n := &fakeNotifier{}
	eng, store := testEngine(t, n)
	const user = int64(99)

	send(t, eng, user, "Coffee — 200₽")

	replies := send(t, eng, user, "2")
	if !strings.Contains(replies[0].Text, "400₽") {
		t.Fatalf("summary should carry total 400: %q", replies[0].Text)
	}
	if replies[0].Markup != MarkupConfirm {
		t.Fatalf("markup = %v, want confirm keyboard", replies[0].Markup)
	}
	if got := sessionStep(t, store, user); got != state.StepConfirm {
		t.Fatalf("step = %q", got)
	}

	replies = send(t, eng, user, "✅ Подтвердить")
	if len(replies) != 0 {
		t.Fatalf("receipt is delivered by the notifier, extra replies: %+v", replies)
	}

	if len(n.admin) != 1 {
		t.Fatalf("admin notifications = %d, want exactly 1", len(n.admin))
	}
	got := n.admin[0]
	if got.Item != "Coffee" || got.Quantity != 2 || got.Total != 400 {
		t.Fatalf("admin notification = %+v", got)
	}
	if got.OrderRef == "" {
		t.Fatal("expected an order ref")
	}
	if len(n.receipts) != 1 || n.receipts[0].Total != 400 || n.receipts[0].ChatID != user {
		t.Fatalf("receipts = %+v", n.receipts)
	}
	if got := sessionStep(t, store, user); got != state.StepIdle {
		t.Fatalf("step after confirm = %q, want idle", got)
	}
}

func TestInvalidQuantityRepromptsWithoutTransition(t *testing.T) {
	n := &fakeNotifier{}
	eng, store := testEngine(t, n)
	const user = int64(5)

	send(t, eng, user, "Coffee — 200₽")

	for _, in := range []string{"7", "0", "-1", "abc", "✅ Подтвердить"} {
		replies := send(t, eng, user, in)
		if replies[0].Markup != MarkupQuantity {
			t.Fatalf("input %q: markup = %v, want quantity re-prompt", in, replies[0].Markup)
		}
		s, _ := store.Get(context.Background(), user)
		if s.Step != state.StepQuantity {
			t.Fatalf("input %q moved step to %q", in, s.Step)
		}
		if s.Draft.Quantity != 0 || s.Draft.Total != 0 {
			t.Fatalf("input %q touched the draft: %+v", in, s.Draft)
		}
	}
	if len(n.admin) != 0 {
		t.Fatal("no notification may fire before confirmation")
	}
}

func TestCancelNeverNotifies(t *testing.T) {
	n := &fakeNotifier{}
	eng, store := testEngine(t, n)

	// Cancel from the quantity step.
	send(t, eng, 1, "Coffee — 200₽")
	replies := send(t, eng, 1, "❌ Отмена")
	if !strings.Contains(replies[0].Text, "отменён") {
		t.Fatalf("expected cancellation ack: %q", replies[0].Text)
	}
	if got := sessionStep(t, store, 1); got != state.StepIdle {
		t.Fatalf("step = %q, want idle", got)
	}

	// Cancel from the confirmation step.
	send(t, eng, 2, "Coffee — 200₽")
	send(t, eng, 2, "2")
	send(t, eng, 2, "❌ Отмена")
	if got := sessionStep(t, store, 2); got != state.StepIdle {
		t.Fatalf("step = %q, want idle", got)
	}

	if len(n.admin)+len(n.receipts) != 0 {
		t.Fatal("cancel must never invoke the notifier")
	}
}

func TestCancelThenNewItemLeavesNoResidue(t *testing.T) {
	n := &fakeNotifier{}
	eng, store := testEngine(t, n)
	const user = int64(3)

	send(t, eng, user, "Coffee — 200₽")
	send(t, eng, user, "❌ Отмена")
	send(t, eng, user, "Чай — 150₽")

	s, _ := store.Get(context.Background(), user)
	if s.Draft == nil || s.Draft.Item != "Чай" || s.Draft.UnitPrice != 150 {
		t.Fatalf("draft carries residue: %+v", s.Draft)
	}
	if s.Draft.Quantity != 0 {
		t.Fatalf("fresh draft has quantity %d", s.Draft.Quantity)
	}
}

func TestSelectingNewItemMidDialogueRestartsDraft(t *testing.T) {
	n := &fakeNotifier{}
	eng, store := testEngine(t, n)
	const user = int64(4)

	send(t, eng, user, "Coffee — 200₽")
	send(t, eng, user, "2")

	// New selection at the confirmation step overwrites, never merges.
	replies := send(t, eng, user, "Чай — 150₽")
	if replies[0].Markup != MarkupQuantity {
		t.Fatalf("markup = %v, want quantity prompt for the new item", replies[0].Markup)
	}
	s, _ := store.Get(context.Background(), user)
	if s.Step != state.StepQuantity {
		t.Fatalf("step = %q", s.Step)
	}
	if s.Draft.Item != "Чай" || s.Draft.UnitPrice != 150 || s.Draft.Quantity != 0 {
		t.Fatalf("draft = %+v", s.Draft)
	}
}

func TestUnrelatedInputInIdleFallsBackToMenu(t *testing.T) {
	n := &fakeNotifier{}
	eng, store := testEngine(t, n)

	replies := send(t, eng, 8, "привет")
	if replies[0].Markup != MarkupMainMenu {
		t.Fatalf("markup = %v, want main menu", replies[0].Markup)
	}
	if got := sessionStep(t, store, 8); got != state.StepIdle {
		t.Fatalf("step = %q", got)
	}
}

func TestUnrecognizedInputAtConfirmReprompts(t *testing.T) {
	n := &fakeNotifier{}
	eng, store := testEngine(t, n)
	const user = int64(6)

	send(t, eng, user, "Coffee — 200₽")
	send(t, eng, user, "3")

	replies := send(t, eng, user, "ну давай")
	if replies[0].Markup != MarkupConfirm {
		t.Fatalf("markup = %v, want confirm re-prompt", replies[0].Markup)
	}
	if got := sessionStep(t, store, user); got != state.StepConfirm {
		t.Fatalf("step = %q, dialogue must stay parked", got)
	}
}

func TestAdminFailureDoesNotBlockCustomer(t *testing.T) {
	n := &fakeNotifier{adminErr: errors.New("admin unreachable")}
	eng, store := testEngine(t, n)
	const user = int64(7)

	send(t, eng, user, "Coffee — 200₽")
	send(t, eng, user, "1")
	replies := send(t, eng, user, "✅ Подтвердить")

	if len(replies) != 0 {
		t.Fatalf("unexpected replies: %+v", replies)
	}
	if len(n.receipts) != 1 {
		t.Fatal("customer receipt must go out despite admin failure")
	}
	if got := sessionStep(t, store, user); got != state.StepIdle {
		t.Fatalf("step = %q, want idle", got)
	}
}

func TestReceiptFailureStillAcknowledges(t *testing.T) {
	n := &fakeNotifier{customerErr: &notify.DeliveryError{Recipient: "customer", Err: errors.New("blocked")}}
	eng, _ := testEngine(t, n)
	const user = int64(9)

	send(t, eng, user, "Coffee — 200₽")
	send(t, eng, user, "1")
	replies := send(t, eng, user, "✅ Подтвердить")

	if len(replies) != 1 {
		t.Fatalf("replies = %d, want fallback acknowledgment", len(replies))
	}
	if !strings.Contains(replies[0].Text, "принят") {
		t.Fatalf("fallback must still confirm the order: %q", replies[0].Text)
	}
}

func TestConfirmCallbackEquivalentToButton(t *testing.T) {
	n := &fakeNotifier{}
	eng, _ := testEngine(t, n)
	const user = int64(10)

	send(t, eng, user, "Coffee — 200₽")
	send(t, eng, user, "2")

	if _, err := eng.Confirm(context.Background(), Message{UserID: user, ChatID: user}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(n.admin) != 1 || n.admin[0].Total != 400 {
		t.Fatalf("admin notifications = %+v", n.admin)
	}
}

func TestBookingFlow(t *testing.T) {
	n := &fakeNotifier{}
	eng, store := testEngine(t, n)
	const user = int64(11)

	replies := send(t, eng, user, "📋 Бронь столика")
	if replies[0].Markup != MarkupCancelOnly {
		t.Fatalf("markup = %v", replies[0].Markup)
	}

	// Past dates are rejected, state stays.
	send(t, eng, user, "01.01.2020 12:00")
	if got := sessionStep(t, store, user); got != state.StepBookingWhen {
		t.Fatalf("step = %q", got)
	}

	send(t, eng, user, "05.09.2026 19:30")
	if got := sessionStep(t, store, user); got != state.StepBookingParty {
		t.Fatalf("step = %q", got)
	}

	replies = send(t, eng, user, "4")
	if !strings.Contains(replies[0].Text, "забронирован") {
		t.Fatalf("expected booking ack: %q", replies[0].Text)
	}
	if len(n.bookings) != 1 || n.bookings[0].Party != 4 {
		t.Fatalf("bookings = %+v", n.bookings)
	}
	want := time.Date(2026, 9, 5, 19, 30, 0, 0, time.Local)
	if !n.bookings[0].When.Equal(want) {
		t.Fatalf("when = %v, want %v", n.bookings[0].When, want)
	}
	if got := sessionStep(t, store, user); got != state.StepIdle {
		t.Fatalf("step = %q", got)
	}
}

func TestBookingCancel(t *testing.T) {
	n := &fakeNotifier{}
	eng, store := testEngine(t, n)
	const user = int64(12)

	send(t, eng, user, "📋 Бронь столика")
	replies := send(t, eng, user, "❌ Отмена")
	if !strings.Contains(replies[0].Text, "Бронь отменена") {
		t.Fatalf("ack = %q", replies[0].Text)
	}
	if got := sessionStep(t, store, user); got != state.StepIdle {
		t.Fatalf("step = %q", got)
	}
	if len(n.bookings) != 0 {
		t.Fatal("cancelled booking must not notify")
	}
}

func TestGreetingAndHelp(t *testing.T) {
	eng, _ := testEngine(t, &fakeNotifier{})

	g := eng.Greeting()
	if !strings.Contains(g.Text, "Кофейня") || g.Markup != MarkupMainMenu {
		t.Fatalf("greeting = %+v", g)
	}

	h := eng.Help()
	if !strings.Contains(h.Text, "+7 (900) 000-00-00") {
		t.Fatalf("help must carry the phone: %q", h.Text)
	}
}
