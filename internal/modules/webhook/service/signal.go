package service

import (
	"fmt"

	"signal_bot/internal/models"

	"github.com/bytedance/sonic"
)

// rawSignal is the union of both webhook payload shapes; validation picks the
// fields the action requires and rejects everything else at this boundary.
type rawSignal struct {
	Action    string  `json:"action"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	TP        float64 `json:"tp"`
	SL        float64 `json:"sl"`
	ExitPrice float64 `json:"exit_price"`
	Result    string  `json:"result"`
}

func ParseSignal(body []byte) (models.Signal, error) {
	var raw rawSignal
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return models.Signal{}, fmt.Errorf("decode signal: %w", err)
	}

	action, ok := models.ParseAction(raw.Action)
	if !ok {
		return models.Signal{}, fmt.Errorf("unsupported action %q", raw.Action)
	}
	if raw.Symbol == "" {
		return models.Signal{}, fmt.Errorf("missing symbol")
	}

	switch action {
	case models.ActionEntry:
		if raw.Price <= 0 {
			return models.Signal{}, fmt.Errorf("entry price must be positive, got %v", raw.Price)
		}
		if raw.SL <= 0 {
			return models.Signal{}, fmt.Errorf("stop-loss price must be positive, got %v", raw.SL)
		}
		if raw.TP < 0 {
			return models.Signal{}, fmt.Errorf("take-profit price must not be negative, got %v", raw.TP)
		}
		return models.Signal{
			Action: action,
			Entry: &models.EntrySignal{
				Symbol: raw.Symbol,
				Price:  raw.Price,
				TP:     raw.TP,
				SL:     raw.SL,
			},
		}, nil

	default: // models.ActionExit
		if raw.ExitPrice <= 0 {
			return models.Signal{}, fmt.Errorf("exit price must be positive, got %v", raw.ExitPrice)
		}
		return models.Signal{
			Action: action,
			Exit: &models.ExitSignal{
				Symbol:    raw.Symbol,
				ExitPrice: raw.ExitPrice,
				Result:    raw.Result,
			},
		}, nil
	}
}
