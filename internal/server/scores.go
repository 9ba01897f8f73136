package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"scory/internal/apperr"
	"scory/internal/db"
)

// Score shapes are tagged by game type. Clients send the complete replacement
// score on the wire (matching the original protocol), but the shape is
// validated server-side before anything is persisted or broadcast.

type cricketInnings struct {
	Runs    int     `json:"runs"`
	Wickets int     `json:"wickets"`
	Overs   float64 `json:"overs"`
}

type cricketScore struct {
	Team1          cricketInnings `json:"team1"`
	Team2          cricketInnings `json:"team2"`
	CurrentInnings int            `json:"currentInnings"`
}

type basketballScore struct {
	Team1   int `json:"team1"`
	Team2   int `json:"team2"`
	Quarter int `json:"quarter"`
}

type footballScore struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
	Half  int `json:"half"`
}

func initialScore(gameType string) datatypes.JSON {
	var score any
	switch gameType {
	case db.GameTypeCricket:
		score = cricketScore{CurrentInnings: 1}
	case db.GameTypeBasketball:
		score = basketballScore{Quarter: 1}
	case db.GameTypeFootball:
		score = footballScore{Half: 1}
	default:
		score = map[string]any{}
	}
	data, _ := json.Marshal(score)
	return datatypes.JSON(data)
}

func validateScore(gameType string, raw json.RawMessage) error {
	if len(raw) == 0 {
		return apperr.New(apperr.KindValidation, "currentScore is required")
	}
	switch gameType {
	case db.GameTypeCricket:
		var score cricketScore
		if err := decodeStrict(raw, &score); err != nil {
			return apperr.New(apperr.KindValidation, "invalid cricket score shape")
		}
		if err := validateInnings("team1", score.Team1); err != nil {
			return err
		}
		if err := validateInnings("team2", score.Team2); err != nil {
			return err
		}
		if score.CurrentInnings != 1 && score.CurrentInnings != 2 {
			return apperr.New(apperr.KindValidation, "currentInnings must be 1 or 2")
		}
	case db.GameTypeBasketball:
		var score basketballScore
		if err := decodeStrict(raw, &score); err != nil {
			return apperr.New(apperr.KindValidation, "invalid basketball score shape")
		}
		if score.Team1 < 0 || score.Team2 < 0 {
			return apperr.New(apperr.KindValidation, "team scores must not be negative")
		}
		if score.Quarter < 1 {
			return apperr.New(apperr.KindValidation, "quarter must be at least 1")
		}
	case db.GameTypeFootball:
		var score footballScore
		if err := decodeStrict(raw, &score); err != nil {
			return apperr.New(apperr.KindValidation, "invalid football score shape")
		}
		if score.Team1 < 0 || score.Team2 < 0 {
			return apperr.New(apperr.KindValidation, "team scores must not be negative")
		}
		if score.Half < 1 {
			return apperr.New(apperr.KindValidation, "half must be at least 1")
		}
	default:
		// Custom games carry a free-form object with no structural checks.
		var score map[string]any
		if err := json.Unmarshal(raw, &score); err != nil {
			return apperr.New(apperr.KindValidation, "currentScore must be an object")
		}
	}
	return nil
}

func validateInnings(label string, innings cricketInnings) error {
	if innings.Runs < 0 {
		return apperr.New(apperr.KindValidation, fmt.Sprintf("%s.runs must not be negative", label))
	}
	if innings.Wickets < 0 || innings.Wickets > 10 {
		return apperr.New(apperr.KindValidation, fmt.Sprintf("%s.wickets must be between 0 and 10", label))
	}
	if innings.Overs < 0 {
		return apperr.New(apperr.KindValidation, fmt.Sprintf("%s.overs must not be negative", label))
	}
	return nil
}

func decodeStrict(raw json.RawMessage, dest any) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}
