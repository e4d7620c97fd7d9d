package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownResult = errors.New("unknown game result")

type GameResult int

const (
	InProgress GameResult = iota
	ComputerWin
	HumanWin
	Draw
)

var resultNames = map[GameResult]string{
	InProgress:  "in_progress",
	ComputerWin: "computer_win",
	HumanWin:    "human_win",
	Draw:        "draw",
}

func (r GameResult) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("GameResult(%d)", int(r))
}

func (r GameResult) IsOver() bool {
	return r != InProgress
}

func (r GameResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *GameResult) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("game result: %w", err)
	}

	for result, candidate := range resultNames {
		if candidate == name {
			*r = result
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownResult, name)
}
