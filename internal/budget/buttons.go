package budget

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/zenith/internal/model"
)

// Buttons returns the quick-add presets in display order.
func (e *Engine) Buttons() []model.QuickButton {
	return append([]model.QuickButton(nil), e.state.Buttons...)
}

// AddQuickButton appends a custom preset keyed custom-<unix millis>.
func (e *Engine) AddQuickButton(label string, price float64) (model.QuickButton, AddResult) {
	if !validAmount(price) {
		return model.QuickButton{}, RejectedInvalidAmount
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return model.QuickButton{}, RejectedEmptyLabel
	}

	key := "custom-" + strconv.FormatInt(e.opts.Clock().UnixMilli(), 10)
	for i := 2; e.buttonIndex(key) >= 0; i++ {
		key = fmt.Sprintf("custom-%d-%d", e.opts.Clock().UnixMilli(), i)
	}
	b := model.QuickButton{Key: key, Label: label, Price: price}
	e.state.Buttons = append(e.state.Buttons, b)
	e.changed()
	return b, Accepted
}

// RemoveQuickButton deletes the preset with key.
func (e *Engine) RemoveQuickButton(key string) bool {
	i := e.buttonIndex(key)
	if i < 0 {
		return false
	}
	e.state.Buttons = append(e.state.Buttons[:i:i], e.state.Buttons[i+1:]...)
	e.changed()
	return true
}

// UseQuickButton logs the preset as a food transaction dated today.
func (e *Engine) UseQuickButton(ctx context.Context, key string) (model.Transaction, AddResult) {
	i := e.buttonIndex(key)
	if i < 0 {
		return model.Transaction{}, RejectedUnknownButton
	}
	b := e.state.Buttons[i]
	return e.AddTransaction(ctx, Entry{
		Label:  b.Label,
		Amount: b.Price,
		Type:   model.TxFood,
		Meta:   map[string]string{"priceTag": b.Key},
	})
}

func (e *Engine) buttonIndex(key string) int {
	for i, b := range e.state.Buttons {
		if b.Key == key {
			return i
		}
	}
	return -1
}
