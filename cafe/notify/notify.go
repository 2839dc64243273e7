// Package notify delivers finalized orders to the café admin and
// receipts to customers.
package notify

import (
	"context"
	"fmt"
	"time"

	"cafebot/core/telegram/format"
)

// AdminNotification is a completed order forwarded to the admin chat.
// It is built at confirmation time and not persisted after delivery.
type AdminNotification struct {
	OrderRef     string
	CafeName     string
	CustomerName string
	CustomerID   int64
	// Username is the customer's handle without the leading @, may be empty.
	Username string
	Item     string
	Quantity int
	Total    int
	Phone    string
}

// Receipt is the order confirmation sent back to the customer.
type Receipt struct {
	ChatID   int64
	Item     string
	Quantity int
	Total    int
	Phone    string
}

// Booking is a table reservation request forwarded to the admin chat.
type Booking struct {
	CafeName     string
	CustomerName string
	CustomerID   int64
	Username     string
	When         time.Time
	Party        int
	Phone        string
}

// DeliveryError reports a failed outbound send together with the
// recipient kind ("admin" or "customer").
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Notifier sends order and booking notifications. Admin-side delivery
// is best effort: a DeliveryError from NotifyAdmin or NotifyBooking is
// logged by the caller and must not abort the customer-facing flow.
// NotifyCustomer is awaited; its failure is surfaced to the dialogue
// so the customer still gets an error reply.
type Notifier interface {
	NotifyAdmin(ctx context.Context, n AdminNotification) error
	NotifyBooking(ctx context.Context, b Booking) error
	NotifyCustomer(ctx context.Context, r Receipt) error
}

// OrderRef derives a human-readable order identifier from the user id
// and the confirmation timestamp. It is not globally persisted.
func OrderRef(userID int64, at time.Time) string {
	return fmt.Sprintf("%d-%s", userID, at.Format("20060102-150405"))
}

func displayHandle(username string, userID int64) string {
	if username != "" {
		return "@" + username
	}
	return fmt.Sprintf("%d", userID)
}

// customerLine renders the customer identity. Display names are free
// text from the user and must not break the Markdown message.
func customerLine(name, username string, userID int64) string {
	handle := displayHandle(username, userID)
	if name == "" {
		return handle
	}
	escaped, err := format.EscapeMarkdown(name, format.MarkdownV1)
	if err != nil {
		escaped = name
	}
	return escaped + " " + handle
}

// FormatAdmin renders the admin order message in Markdown.
func FormatAdmin(n AdminNotification) string {
	return fmt.Sprintf(
		"☕ **НОВЫЙ ЗАКАЗ** `%s`\n\n"+
			"**%s** × %d\n"+
			"💰 **%d₽**\n\n"+
			"👤 %s\n"+
			"🆔 `%d`\n"+
			"📋 `%s`\n"+
			"📞 %s",
		n.CafeName, n.Item, n.Quantity, n.Total,
		customerLine(n.CustomerName, n.Username, n.CustomerID), n.CustomerID,
		n.OrderRef, n.Phone,
	)
}

// FormatBooking renders the admin booking message in Markdown.
func FormatBooking(b Booking) string {
	return fmt.Sprintf(
		"📋 **БРОНЬ СТОЛИКА** `%s`\n\n"+
			"🗓 **%s**\n"+
			"👥 **%d чел.**\n\n"+
			"👤 %s\n"+
			"🆔 `%d`\n"+
			"📞 %s",
		b.CafeName, b.When.Format("02.01.2006 15:04"), b.Party,
		customerLine(b.CustomerName, b.Username, b.CustomerID), b.CustomerID, b.Phone,
	)
}

// FormatReceipt renders the customer confirmation in Markdown.
func FormatReceipt(r Receipt) string {
	return fmt.Sprintf(
		"🎉 **Заказ принят!**\n\n"+
			"`%s` × **%d** — **%d₽**\n\n"+
			"Спасибо! Уже готовим ☕\n\n"+
			"📞 **%s**",
		r.Item, r.Quantity, r.Total, r.Phone,
	)
}
