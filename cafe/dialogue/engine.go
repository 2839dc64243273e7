package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cafebot/cafe/catalog"
	"cafebot/cafe/notify"
	"cafebot/core/logger"
	"cafebot/core/telegram/helpers"
	"cafebot/core/telegram/state"
)

// Markup tags the keyboard a reply should carry. The engine stays
// platform-free; the transport adapter maps tags to actual keyboards.
type Markup int

const (
	// MarkupNone keeps the current keyboard.
	MarkupNone Markup = iota
	// MarkupMainMenu shows the menu item labels plus the service row.
	MarkupMainMenu
	// MarkupQuantity shows the portion count buttons and cancel.
	MarkupQuantity
	// MarkupConfirm shows confirm and cancel.
	MarkupConfirm
	// MarkupCancelOnly shows a lone cancel button (booking steps).
	MarkupCancelOnly
)

// Message is the narrow inbound shape the engine understands.
type Message struct {
	UserID      int64
	ChatID      int64
	Text        string
	DisplayName string
	// Username is the handle without @, may be empty.
	Username string
}

// Reply is one outbound message produced by a transition.
type Reply struct {
	Text   string
	Markup Markup
}

// Options configures the dialogue engine.
type Options struct {
	Catalog  *catalog.Catalog
	Store    state.Store
	Notifier notify.Notifier

	CafeName string
	Phone    string
	// MaxQuantity bounds the portion count, default 5.
	MaxQuantity int
	// MaxParty bounds the booking party size, default 12.
	MaxParty int
	// OpenHour/CloseHour are surfaced in the help text.
	OpenHour  int
	CloseHour int

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Engine drives one order per user from item selection to confirmation
// or cancellation. All session mutation goes through the Store; the
// router delivers a single user's messages in arrival order, so the
// engine itself holds no locks.
type Engine struct {
	cat      *catalog.Catalog
	store    state.Store
	notifier notify.Notifier
	parser   *Parser

	cafeName  string
	phone     string
	maxQty    int
	maxParty  int
	openHour  int
	closeHour int

	now func() time.Time
	log *slog.Logger
}

// New validates options and builds an engine.
func New(opts Options) (*Engine, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("dialogue: nil catalog")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("dialogue: nil session store")
	}
	if opts.Notifier == nil {
		return nil, fmt.Errorf("dialogue: nil notifier")
	}
	if opts.MaxQuantity <= 0 {
		opts.MaxQuantity = 5
	}
	if opts.MaxParty <= 0 {
		opts.MaxParty = 12
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := logger.Component("dialogue")
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		cat:       opts.Catalog,
		store:     opts.Store,
		notifier:  opts.Notifier,
		parser:    NewParser(opts.Catalog),
		cafeName:  opts.CafeName,
		phone:     opts.Phone,
		maxQty:    opts.MaxQuantity,
		maxParty:  opts.MaxParty,
		openHour:  opts.OpenHour,
		closeHour: opts.CloseHour,
		now:       opts.Now,
		log:       log,
	}, nil
}

// Greeting is the /start reply.
func (e *Engine) Greeting() Reply {
	return Reply{Text: textGreeting(e.cafeName), Markup: MarkupMainMenu}
}

// Help is the help button / command reply.
func (e *Engine) Help() Reply {
	return Reply{Text: textHelp(e.cafeName, e.phone, e.openHour, e.closeHour), Markup: MarkupMainMenu}
}

// Session exposes the raw session for the admin debug command.
func (e *Engine) Session(ctx context.Context, userID int64) (state.Session, error) {
	return e.store.Get(ctx, userID)
}

// HandleText processes one inbound text message and returns the
// replies to deliver in order.
func (e *Engine) HandleText(ctx context.Context, msg Message) ([]Reply, error) {
	return e.apply(ctx, msg, e.parser.Parse(msg.Text))
}

// Confirm applies an explicit confirmation, e.g. the inline ✅ button.
func (e *Engine) Confirm(ctx context.Context, msg Message) ([]Reply, error) {
	return e.apply(ctx, msg, Command{Kind: KindConfirm})
}

// Cancel applies an explicit cancellation, e.g. /cancel or the inline
// ❌ button.
func (e *Engine) Cancel(ctx context.Context, msg Message) ([]Reply, error) {
	return e.apply(ctx, msg, Command{Kind: KindCancel})
}

func (e *Engine) apply(ctx context.Context, msg Message, cmd Command) ([]Reply, error) {
	s, err := e.store.Get(ctx, msg.UserID)
	if err != nil {
		return []Reply{{Text: textStorageTrouble, Markup: MarkupMainMenu}},
			fmt.Errorf("dialogue: load session: %w", err)
	}

	// Item selection restarts the draft from any step.
	if cmd.Kind == KindSelectItem {
		return e.startOrder(ctx, msg, cmd.Item)
	}

	switch s.Step {
	case state.StepQuantity:
		return e.applyQuantity(ctx, msg, cmd, s)
	case state.StepConfirm:
		return e.applyConfirm(ctx, msg, cmd, s)
	case state.StepBookingWhen:
		return e.applyBookingWhen(ctx, msg, cmd, s)
	case state.StepBookingParty:
		return e.applyBookingParty(ctx, msg, cmd, s)
	default:
		return e.applyIdle(ctx, msg, cmd)
	}
}

func (e *Engine) applyIdle(ctx context.Context, msg Message, cmd Command) ([]Reply, error) {
	switch cmd.Kind {
	case KindBookTable:
		s := state.Session{Step: state.StepBookingWhen, Booking: &state.BookingDraft{}}
		if err := e.setSession(ctx, msg.UserID, s); err != nil {
			return []Reply{{Text: textStorageTrouble, Markup: MarkupMainMenu}}, err
		}
		e.logTransition(ctx, msg.UserID, state.StepIdle, state.StepBookingWhen, nil)
		return []Reply{{Text: textBookWhenPrompt, Markup: MarkupCancelOnly}}, nil
	case KindHelp:
		return []Reply{e.Help()}, nil
	default:
		// Nothing in flight: cancel, confirm, quantities and free text
		// all get the menu fallback.
		return []Reply{{Text: textFallback, Markup: MarkupMainMenu}}, nil
	}
}

func (e *Engine) startOrder(ctx context.Context, msg Message, item catalog.Entry) ([]Reply, error) {
	s := state.Session{
		Step:  state.StepQuantity,
		Draft: &state.Draft{Item: item.Name, UnitPrice: item.Price},
	}
	if err := e.setSession(ctx, msg.UserID, s); err != nil {
		return []Reply{{Text: textStorageTrouble, Markup: MarkupMainMenu}}, err
	}
	e.logTransition(ctx, msg.UserID, state.StepIdle, state.StepQuantity, []slog.Attr{
		slog.String("item", item.Name),
	})
	return []Reply{{Text: textItemChosen(item.Name, item.Price), Markup: MarkupQuantity}}, nil
}

func (e *Engine) applyQuantity(ctx context.Context, msg Message, cmd Command, s state.Session) ([]Reply, error) {
	switch cmd.Kind {
	case KindCancel:
		return e.cancelOrder(ctx, msg)
	case KindSetQuantity:
		if cmd.Quantity < 1 || cmd.Quantity > e.maxQty {
			return []Reply{{Text: textQuantityHint, Markup: MarkupQuantity}}, nil
		}
		if s.Draft == nil {
			return e.resetBroken(ctx, msg)
		}
		s.Draft.Quantity = cmd.Quantity
		s.Draft.Total = s.Draft.UnitPrice * cmd.Quantity
		s.Step = state.StepConfirm
		if err := e.setSession(ctx, msg.UserID, s); err != nil {
			return []Reply{{Text: textStorageTrouble, Markup: MarkupMainMenu}}, err
		}
		e.logTransition(ctx, msg.UserID, state.StepQuantity, state.StepConfirm, []slog.Attr{
			slog.String("item", s.Draft.Item),
			slog.Int("quantity", s.Draft.Quantity),
			slog.Int("total", s.Draft.Total),
		})
		return []Reply{{
			Text:   textOrderSummary(s.Draft.Item, s.Draft.Quantity, s.Draft.Total),
			Markup: MarkupConfirm,
		}}, nil
	default:
		// Invalid input never transitions and never touches the draft.
		return []Reply{{Text: textQuantityHint, Markup: MarkupQuantity}}, nil
	}
}

func (e *Engine) applyConfirm(ctx context.Context, msg Message, cmd Command, s state.Session) ([]Reply, error) {
	switch cmd.Kind {
	case KindCancel:
		return e.cancelOrder(ctx, msg)
	case KindConfirm:
		return e.finalizeOrder(ctx, msg, s)
	default:
		if s.Draft == nil {
			return e.resetBroken(ctx, msg)
		}
		return []Reply{{
			Text:   textOrderSummary(s.Draft.Item, s.Draft.Quantity, s.Draft.Total) + "\n\n" + textConfirmHint,
			Markup: MarkupConfirm,
		}}, nil
	}
}

func (e *Engine) finalizeOrder(ctx context.Context, msg Message, s state.Session) ([]Reply, error) {
	d := s.Draft
	if d == nil || d.Quantity == 0 {
		return e.resetBroken(ctx, msg)
	}

	now := e.now()
	ref := notify.OrderRef(msg.UserID, now)

	if err := e.notifier.NotifyAdmin(ctx, notify.AdminNotification{
		OrderRef:     ref,
		CafeName:     e.cafeName,
		CustomerName: msg.DisplayName,
		CustomerID:   msg.UserID,
		Username:     msg.Username,
		Item:         d.Item,
		Quantity:     d.Quantity,
		Total:        d.Total,
		Phone:        e.phone,
	}); err != nil {
		e.log.Warn("admin notification failed",
			slog.String("event", "notify_admin"),
			slog.String("order_ref", ref),
			slog.String("err", err.Error()),
		)
	}

	if err := e.store.Clear(ctx, msg.UserID); err != nil {
		return []Reply{{Text: textStorageTrouble, Markup: MarkupMainMenu}},
			fmt.Errorf("dialogue: clear session: %w", err)
	}
	e.logTransition(ctx, msg.UserID, state.StepConfirm, state.StepIdle, []slog.Attr{
		slog.String("item", d.Item),
		slog.Int("quantity", d.Quantity),
		slog.Int("total", d.Total),
		slog.String("order_ref", ref),
	})

	if err := e.notifier.NotifyCustomer(ctx, notify.Receipt{
		ChatID:   msg.ChatID,
		Item:     d.Item,
		Quantity: d.Quantity,
		Total:    d.Total,
		Phone:    e.phone,
	}); err != nil {
		e.log.Error("customer receipt failed",
			slog.String("event", "notify_customer"),
			slog.String("order_ref", ref),
			slog.String("err", err.Error()),
		)
		return []Reply{{Text: textReceiptFailed, Markup: MarkupMainMenu}}, nil
	}

	// The receipt already carried the success text and the menu keyboard.
	return nil, nil
}

func (e *Engine) applyBookingWhen(ctx context.Context, msg Message, cmd Command, s state.Session) ([]Reply, error) {
	if cmd.Kind == KindCancel {
		return e.cancelBooking(ctx, msg)
	}

	when, ok := helpers.ParseFlexibleDate(cmd.Text)
	if !ok {
		return []Reply{{Text: textBookWhenHint, Markup: MarkupCancelOnly}}, nil
	}
	if when.Before(e.now()) {
		return []Reply{{Text: textBookWhenPast, Markup: MarkupCancelOnly}}, nil
	}

	s.Step = state.StepBookingParty
	s.Booking = &state.BookingDraft{When: when}
	if err := e.setSession(ctx, msg.UserID, s); err != nil {
		return []Reply{{Text: textStorageTrouble, Markup: MarkupMainMenu}}, err
	}
	e.logTransition(ctx, msg.UserID, state.StepBookingWhen, state.StepBookingParty, []slog.Attr{
		slog.Time("booked_at", when),
	})
	return []Reply{{Text: textBookPartyPrompt(when), Markup: MarkupCancelOnly}}, nil
}

func (e *Engine) applyBookingParty(ctx context.Context, msg Message, cmd Command, s state.Session) ([]Reply, error) {
	switch cmd.Kind {
	case KindCancel:
		return e.cancelBooking(ctx, msg)
	case KindSetQuantity:
		if cmd.Quantity < 1 || cmd.Quantity > e.maxParty {
			return []Reply{{Text: textBookPartyHint(e.maxParty), Markup: MarkupCancelOnly}}, nil
		}
		if s.Booking == nil {
			return e.resetBroken(ctx, msg)
		}
		when := s.Booking.When

		if err := e.notifier.NotifyBooking(ctx, notify.Booking{
			CafeName:     e.cafeName,
			CustomerName: msg.DisplayName,
			CustomerID:   msg.UserID,
			Username:     msg.Username,
			When:         when,
			Party:        cmd.Quantity,
			Phone:        e.phone,
		}); err != nil {
			e.log.Warn("booking notification failed",
				slog.String("event", "notify_booking"),
				slog.String("err", err.Error()),
			)
		}

		if err := e.store.Clear(ctx, msg.UserID); err != nil {
			return []Reply{{Text: textStorageTrouble, Markup: MarkupMainMenu}},
				fmt.Errorf("dialogue: clear session: %w", err)
		}
		e.logTransition(ctx, msg.UserID, state.StepBookingParty, state.StepIdle, []slog.Attr{
			slog.Time("booked_at", when),
			slog.Int("party", cmd.Quantity),
		})
		return []Reply{{Text: textBookingDone(when, cmd.Quantity), Markup: MarkupMainMenu}}, nil
	default:
		return []Reply{{Text: textBookPartyHint(e.maxParty), Markup: MarkupCancelOnly}}, nil
	}
}

func (e *Engine) cancelOrder(ctx context.Context, msg Message) ([]Reply, error) {
	if err := e.store.Clear(ctx, msg.UserID); err != nil {
		return []Reply{{Text: textStorageTrouble, Markup: MarkupMainMenu}},
			fmt.Errorf("dialogue: clear session: %w", err)
	}
	e.log.Info("order cancelled",
		slog.String("event", "cancel"),
		slog.Int64("user_id", msg.UserID),
	)
	return []Reply{{Text: textOrderCancelled, Markup: MarkupMainMenu}}, nil
}

func (e *Engine) cancelBooking(ctx context.Context, msg Message) ([]Reply, error) {
	if err := e.store.Clear(ctx, msg.UserID); err != nil {
		return []Reply{{Text: textStorageTrouble, Markup: MarkupMainMenu}},
			fmt.Errorf("dialogue: clear session: %w", err)
	}
	return []Reply{{Text: textBookCancelled, Markup: MarkupMainMenu}}, nil
}

// resetBroken clears a session whose draft went missing mid-dialogue,
// e.g. after a storage wipe, and falls back to the menu.
func (e *Engine) resetBroken(ctx context.Context, msg Message) ([]Reply, error) {
	if err := e.store.Clear(ctx, msg.UserID); err != nil {
		return []Reply{{Text: textStorageTrouble, Markup: MarkupMainMenu}},
			fmt.Errorf("dialogue: clear session: %w", err)
	}
	return []Reply{{Text: textFallback, Markup: MarkupMainMenu}}, nil
}

func (e *Engine) setSession(ctx context.Context, userID int64, s state.Session) error {
	if err := e.store.Set(ctx, userID, s); err != nil {
		return fmt.Errorf("dialogue: save session: %w", err)
	}
	return nil
}

func (e *Engine) logTransition(ctx context.Context, userID int64, from, to state.Step, attrs []slog.Attr) {
	all := append([]slog.Attr{
		slog.String("event", "transition"),
		slog.Int64("user_id", userID),
		slog.String("step", string(from)+">"+string(to)),
	}, attrs...)
	e.log.LogAttrs(ctx, slog.LevelInfo, "", all...)
}
