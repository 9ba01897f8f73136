package server

import (
	"encoding/json"
	"testing"

	"scory/internal/db"
)

func TestInitialScoreShapes(t *testing.T) {
	var cricket cricketScore
	if err := json.Unmarshal(initialScore(db.GameTypeCricket), &cricket); err != nil {
		t.Fatalf("decode cricket initial score: %v", err)
	}
	if cricket.CurrentInnings != 1 || cricket.Team1.Runs != 0 || cricket.Team2.Wickets != 0 {
		t.Fatalf("unexpected cricket initial score: %+v", cricket)
	}

	var basketball basketballScore
	if err := json.Unmarshal(initialScore(db.GameTypeBasketball), &basketball); err != nil {
		t.Fatalf("decode basketball initial score: %v", err)
	}
	if basketball.Quarter != 1 || basketball.Team1 != 0 {
		t.Fatalf("unexpected basketball initial score: %+v", basketball)
	}

	var football footballScore
	if err := json.Unmarshal(initialScore(db.GameTypeFootball), &football); err != nil {
		t.Fatalf("decode football initial score: %v", err)
	}
	if football.Half != 1 {
		t.Fatalf("unexpected football initial score: %+v", football)
	}

	var custom map[string]any
	if err := json.Unmarshal(initialScore(db.GameTypeCustom), &custom); err != nil {
		t.Fatalf("decode custom initial score: %v", err)
	}
	if len(custom) != 0 {
		t.Fatalf("expected empty custom score, got %v", custom)
	}
}

func TestValidateScore(t *testing.T) {
	valid := []struct {
		gameType string
		raw      string
	}{
		{db.GameTypeCricket, `{"team1":{"runs":12,"wickets":2,"overs":3.4},"team2":{"runs":0,"wickets":0,"overs":0},"currentInnings":1}`},
		{db.GameTypeCricket, `{"team1":{"runs":0,"wickets":10,"overs":0},"team2":{"runs":0,"wickets":0,"overs":0},"currentInnings":2}`},
		{db.GameTypeBasketball, `{"team1":99,"team2":87,"quarter":4}`},
		{db.GameTypeFootball, `{"team1":2,"team2":1,"half":2}`},
		{db.GameTypeCustom, `{"anything":["goes",1,true]}`},
	}
	for _, tc := range valid {
		if err := validateScore(tc.gameType, json.RawMessage(tc.raw)); err != nil {
			t.Fatalf("%s %s: unexpected error %v", tc.gameType, tc.raw, err)
		}
	}

	invalid := []struct {
		gameType string
		raw      string
	}{
		{db.GameTypeCricket, ``},
		{db.GameTypeCricket, `{"team1":5,"team2":3,"quarter":1}`},
		{db.GameTypeCricket, `{"team1":{"runs":-1,"wickets":0,"overs":0},"team2":{"runs":0,"wickets":0,"overs":0},"currentInnings":1}`},
		{db.GameTypeCricket, `{"team1":{"runs":0,"wickets":11,"overs":0},"team2":{"runs":0,"wickets":0,"overs":0},"currentInnings":1}`},
		{db.GameTypeCricket, `{"team1":{"runs":0,"wickets":0,"overs":-0.5},"team2":{"runs":0,"wickets":0,"overs":0},"currentInnings":1}`},
		{db.GameTypeCricket, `{"team1":{"runs":0,"wickets":0,"overs":0},"team2":{"runs":0,"wickets":0,"overs":0},"currentInnings":0}`},
		{db.GameTypeBasketball, `{"team1":-5,"team2":0,"quarter":1}`},
		{db.GameTypeBasketball, `{"team1":5,"team2":0,"quarter":0}`},
		{db.GameTypeBasketball, `{"team1":5,"team2":0,"quarter":1,"extra":true}`},
		{db.GameTypeFootball, `{"team1":0,"team2":0,"half":0}`},
		{db.GameTypeCustom, `[1,2,3]`},
		{db.GameTypeCustom, `"just a string"`},
	}
	for _, tc := range invalid {
		if err := validateScore(tc.gameType, json.RawMessage(tc.raw)); err == nil {
			t.Fatalf("%s %s: expected validation error", tc.gameType, tc.raw)
		}
	}
}

func TestNewRoomCodeFormat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := newRoomCode()
		if len(code) != 6 {
			t.Fatalf("expected 6 characters, got %q", code)
		}
		for _, r := range code {
			if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') {
				continue
			}
			t.Fatalf("unexpected character %q in room code %q", r, code)
		}
	}
}
