package notify

import (
	"context"
	"log/slog"

	"cafebot/core/logger"
	"cafebot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Sender is the subset of the bot client the notifier needs.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Telegram delivers notifications over the Telegram bot API. Admin
// messages go through the async sender dispatcher so a slow or
// unreachable admin chat never blocks the customer dialogue; customer
// receipts are sent synchronously.
type Telegram struct {
	bot        Sender
	dispatcher *sender.Dispatcher
	adminID    int64
	// customerMarkup is attached to receipts to restore the main menu.
	customerMarkup *tele.ReplyMarkup
	log            *slog.Logger
}

// NewTelegram builds a Telegram notifier. dispatcher may be nil, in
// which case admin messages are sent synchronously as well.
func NewTelegram(bot Sender, dispatcher *sender.Dispatcher, adminID int64, customerMarkup *tele.ReplyMarkup) *Telegram {
	log := logger.Component("notify")
	if log == nil {
		log = slog.Default()
	}
	return &Telegram{
		bot:            bot,
		dispatcher:     dispatcher,
		adminID:        adminID,
		customerMarkup: customerMarkup,
		log:            log,
	}
}

// NotifyAdmin queues the order message for the admin chat.
// A full or closed queue falls back to a synchronous send.
func (t *Telegram) NotifyAdmin(ctx context.Context, n AdminNotification) error {
	return t.sendAdmin(ctx, "notify_admin", FormatAdmin(n))
}

// NotifyBooking queues the booking message for the admin chat.
func (t *Telegram) NotifyBooking(ctx context.Context, b Booking) error {
	return t.sendAdmin(ctx, "notify_booking", FormatBooking(b))
}

func (t *Telegram) sendAdmin(ctx context.Context, endpoint, text string) error {
	run := func() error {
		_, err := t.bot.Send(tele.ChatID(t.adminID), text, tele.ModeMarkdown)
		return err
	}

	if t.dispatcher != nil {
		err := t.dispatcher.Enqueue(ctx, "send", endpoint, run)
		if err == nil {
			return nil
		}
		t.log.Warn("admin queue unavailable, sending inline",
			slog.String("event", endpoint),
			slog.String("err", err.Error()),
		)
	}

	if err := run(); err != nil {
		return &DeliveryError{Recipient: "admin", Err: err}
	}
	return nil
}

// NotifyCustomer sends the order receipt to the customer chat and waits
// for the result.
func (t *Telegram) NotifyCustomer(ctx context.Context, r Receipt) error {
	opts := []interface{}{tele.ModeMarkdown}
	if t.customerMarkup != nil {
		opts = append(opts, t.customerMarkup)
	}
	if _, err := t.bot.Send(tele.ChatID(r.ChatID), FormatReceipt(r), opts...); err != nil {
		return &DeliveryError{Recipient: "customer", Err: err}
	}
	return nil
}
