// Package dialogue implements the order-taking conversation: a
// per-user state machine from item selection through quantity to
// confirmation, plus the table booking flow. The engine consumes an
// explicit command vocabulary produced by Parse and knows nothing
// about the chat platform.
package dialogue

import "cafebot/cafe/catalog"

// CommandKind tags a parsed inbound message.
type CommandKind int

const (
	// KindUnknown is any text the parser could not classify.
	KindUnknown CommandKind = iota
	// KindSelectItem is a menu item selection.
	KindSelectItem
	// KindSetQuantity is a portion count.
	KindSetQuantity
	// KindConfirm accepts the pending order summary.
	KindConfirm
	// KindCancel aborts the current dialogue.
	KindCancel
	// KindHelp requests the help text.
	KindHelp
	// KindBookTable starts the table booking flow.
	KindBookTable
)

// Command is the parsed form of one inbound message.
type Command struct {
	Kind CommandKind
	// Item is set for KindSelectItem.
	Item catalog.Entry
	// Quantity is set for KindSetQuantity; bounds are checked by the engine.
	Quantity int
	// Text is the original trimmed message, kept for booking-step parsing.
	Text string
}

func (k CommandKind) String() string {
	switch k {
	case KindSelectItem:
		return "select_item"
	case KindSetQuantity:
		return "set_quantity"
	case KindConfirm:
		return "confirm"
	case KindCancel:
		return "cancel"
	case KindHelp:
		return "help"
	case KindBookTable:
		return "book_table"
	default:
		return "unknown"
	}
}
