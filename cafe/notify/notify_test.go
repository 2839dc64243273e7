package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

type fakeSender struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	to   tele.Recipient
	text string
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	text, _ := what.(string)
	f.sent = append(f.sent, sentMessage{to: to, text: text})
	return &tele.Message{}, nil
}

func TestFormatAdminContainsOrderFields(t *testing.T) {
	got := FormatAdmin(AdminNotification{
		OrderRef:   "99-20260829-120000",
		CafeName:   "Кофейня",
		Username:   "ivan",
		CustomerID: 99,
		Item:       "Капучино",
		Quantity:   2,
		Total:      500,
		Phone:      "+7 (900) 000-00-00",
	})

	for _, want := range []string{
		"НОВЫЙ ЗАКАЗ", "Кофейня", "Капучино", "× 2", "500₽",
		"@ivan", "`99`", "99-20260829-120000", "+7 (900) 000-00-00",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("admin message missing %q:\n%s", want, got)
		}
	}
}

func TestFormatAdminFallsBackToUserID(t *testing.T) {
	got := FormatAdmin(AdminNotification{CustomerID: 42})
	if !strings.Contains(got, "👤 42") {
		t.Fatalf("expected numeric handle fallback:\n%s", got)
	}
	if strings.Contains(got, "@") {
		t.Fatalf("unexpected handle marker:\n%s", got)
	}
}

func TestFormatAdminEscapesDisplayName(t *testing.T) {
	got := FormatAdmin(AdminNotification{CustomerName: "Ivan_the*Great", CustomerID: 1})
	if !strings.Contains(got, `Ivan\_the\*Great`) {
		t.Fatalf("display name not escaped:\n%s", got)
	}
}

func TestFormatReceipt(t *testing.T) {
	got := FormatReceipt(Receipt{Item: "Чай", Quantity: 1, Total: 150, Phone: "+7 (900) 000-00-00"})
	for _, want := range []string{"Заказ принят", "Чай", "150₽", "+7 (900) 000-00-00"} {
		if !strings.Contains(got, want) {
			t.Fatalf("receipt missing %q:\n%s", want, got)
		}
	}
}

func TestFormatBooking(t *testing.T) {
	when := time.Date(2026, 9, 1, 19, 30, 0, 0, time.Local)
	got := FormatBooking(Booking{CafeName: "Кофейня", When: when, Party: 4, CustomerID: 7})
	for _, want := range []string{"БРОНЬ СТОЛИКА", "01.09.2026 19:30", "4 чел."} {
		if !strings.Contains(got, want) {
			t.Fatalf("booking missing %q:\n%s", want, got)
		}
	}
}

func TestOrderRef(t *testing.T) {
	at := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	if got, want := OrderRef(99, at), "99-20260829-120000"; got != want {
		t.Fatalf("order ref = %q, want %q", got, want)
	}
}

func TestNotifyAdminWithoutDispatcherSendsInline(t *testing.T) {
	bot := &fakeSender{}
	n := NewTelegram(bot, nil, 555, nil)

	err := n.NotifyAdmin(context.Background(), AdminNotification{Item: "Кофе", Quantity: 1, Total: 200})
	if err != nil {
		t.Fatalf("notify admin: %v", err)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(bot.sent))
	}
	if bot.sent[0].to.Recipient() != "555" {
		t.Fatalf("recipient = %q, want admin chat", bot.sent[0].to.Recipient())
	}
}

func TestNotifyCustomerWrapsDeliveryError(t *testing.T) {
	sendErr := errors.New("chat not found")
	n := NewTelegram(&fakeSender{err: sendErr}, nil, 555, nil)

	err := n.NotifyCustomer(context.Background(), Receipt{ChatID: 12})
	var de *DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
	if de.Recipient != "customer" {
		t.Fatalf("recipient = %q, want customer", de.Recipient)
	}
	if !errors.Is(err, sendErr) {
		t.Fatal("expected wrapped cause")
	}
}
