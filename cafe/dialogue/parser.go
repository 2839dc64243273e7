package dialogue

import (
	"strconv"
	"strings"

	"cafebot/cafe/catalog"
)

// Keyboard button texts. The parser is the single place that maps
// presentation strings to commands; the engine never compares raw text.
const (
	BtnCancel  = "❌ Отмена"
	BtnConfirm = "✅ Подтвердить"
	BtnBook    = "📋 Бронь столика"
	BtnHelp    = "❓ Помощь"
)

// Parser classifies inbound text against the catalog and the fixed
// button vocabulary.
type Parser struct {
	cat *catalog.Catalog
}

// NewParser builds a parser over the given catalog.
func NewParser(cat *catalog.Catalog) *Parser {
	return &Parser{cat: cat}
}

// Parse maps one message to a Command. Matching order: cancel and
// confirm tokens, service buttons, menu labels, bare item names,
// quantities. Unclassified text becomes KindUnknown with the trimmed
// original preserved.
func (p *Parser) Parse(text string) Command {
	trimmed := strings.TrimSpace(text)
	cmd := Command{Kind: KindUnknown, Text: trimmed}
	if trimmed == "" {
		return cmd
	}

	switch trimmed {
	case BtnCancel:
		cmd.Kind = KindCancel
		return cmd
	case BtnConfirm:
		cmd.Kind = KindConfirm
		return cmd
	case BtnBook:
		cmd.Kind = KindBookTable
		return cmd
	case BtnHelp:
		cmd.Kind = KindHelp
		return cmd
	}

	switch strings.ToLower(trimmed) {
	case "отмена", "/cancel":
		cmd.Kind = KindCancel
		return cmd
	case "подтвердить", "да":
		cmd.Kind = KindConfirm
		return cmd
	case "помощь", "/help":
		cmd.Kind = KindHelp
		return cmd
	}

	if entry, ok := p.cat.Lookup(trimmed); ok {
		cmd.Kind = KindSelectItem
		cmd.Item = entry
		return cmd
	}
	if price, err := p.cat.PriceOf(trimmed); err == nil {
		cmd.Kind = KindSelectItem
		cmd.Item = catalog.Entry{Name: trimmed, Price: price}
		return cmd
	}

	if qty, ok := parseQuantity(trimmed); ok {
		cmd.Kind = KindSetQuantity
		cmd.Quantity = qty
		return cmd
	}

	return cmd
}

// parseQuantity accepts plain integers plus the "3+" style keyboard
// token, which counts as its numeric prefix.
func parseQuantity(s string) (int, bool) {
	s = strings.TrimSuffix(s, "+")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
