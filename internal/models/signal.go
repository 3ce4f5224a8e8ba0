package models

import "strings"

type Action string

const (
	ActionEntry Action = "ENTRY"
	ActionExit  Action = "EXIT"
)

// ParseAction accepts the action field case-insensitively.
func ParseAction(raw string) (Action, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(ActionEntry):
		return ActionEntry, true
	case string(ActionExit):
		return ActionExit, true
	}
	return "", false
}

// EntrySignal carries everything an entry decision needs: the planned entry
// price plus the exchange-native take-profit / stop-loss presets.
type EntrySignal struct {
	Symbol string
	Price  float64
	TP     float64
	SL     float64
}

// ExitSignal is bookkeeping only: the position itself is closed by the
// TP/SL presets on the exchange side.
type ExitSignal struct {
	Symbol    string
	ExitPrice float64
	Result    string // "profit"/"loss" as declared by the signal source
}

type Signal struct {
	Action Action
	Entry  *EntrySignal
	Exit   *ExitSignal
}
