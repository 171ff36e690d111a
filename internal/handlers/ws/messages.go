package ws

import (
	"encoding/json"

	"github.com/scrawlgame/scrawl/internal/services/room"
)

// Envelope is the wire frame for every message in both directions
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client message types
const (
	TypeStartGame  = "start_game"
	TypeChooseWord = "choose_word"
	TypeGuess      = "guess"
	TypeStroke     = "stroke"
)

// Server message types
const (
	TypeRoomState         = "room_state"
	TypePlayerJoined      = "player_joined"
	TypePlayerLeft        = "player_left"
	TypePlayerReconnected = "player_reconnected"
	TypeTurnChoosing      = "turn_choosing"
	TypeWordChoices       = "word_choices"
	TypeTurnStarted       = "turn_started"
	TypeYourWord          = "your_word"
	TypeHint              = "hint"
	TypeChat              = "chat"
	TypeCloseGuess        = "close_guess"
	TypeCorrectGuess      = "correct_guess"
	TypeTurnEnded         = "turn_ended"
	TypeGameOver          = "game_over"
	TypeStrokeEvent       = "stroke"
	TypeError             = "error"
)

// ChooseWordData is the drawer's word pick
type ChooseWordData struct {
	Word string `json:"word"`
}

// GuessData is one chat guess
type GuessData struct {
	Text string `json:"text"`
}

// RoomStateData is the full view sent to a joining or reconnecting client
type RoomStateData struct {
	RoomID        string             `json:"room_id"`
	ConnID        string             `json:"conn_id"`
	SessionToken  string             `json:"session_token,omitempty"`
	Phase         room.Phase         `json:"phase"`
	Round         int                `json:"round"`
	MaxRounds     int                `json:"max_rounds"`
	OwnerConnID   string             `json:"owner_conn_id"`
	DrawerConnID  string             `json:"drawer_conn_id,omitempty"`
	Roster        []room.RosterEntry `json:"roster"`
	Hint          string             `json:"hint,omitempty"`
	TimeRemaining int                `json:"time_remaining,omitempty"`
	Strokes       []json.RawMessage  `json:"strokes,omitempty"`
	Word          string             `json:"word,omitempty"`
}

// PlayerEventData announces a roster change
type PlayerEventData struct {
	ConnID  string             `json:"conn_id"`
	Name    string             `json:"name"`
	Message string             `json:"message"`
	Roster  []room.RosterEntry `json:"roster"`
}

// TurnChoosingData announces the next drawer picking a word
type TurnChoosingData struct {
	DrawerConnID string `json:"drawer_conn_id"`
	DrawerName   string `json:"drawer_name"`
	Round        int    `json:"round"`
	MaxRounds    int    `json:"max_rounds"`
	TimeLimit    int    `json:"time_limit"`
}

// WordChoicesData is sent to the drawer only
type WordChoicesData struct {
	Choices   []string `json:"choices"`
	TimeLimit int      `json:"time_limit"`
}

// TurnStartedData announces the drawing phase
type TurnStartedData struct {
	DrawerConnID string `json:"drawer_conn_id"`
	Hint         string `json:"hint"`
	Duration     int    `json:"duration"`
}

// YourWordData carries the committed word to the drawer only
type YourWordData struct {
	Word string `json:"word"`
}

// HintData carries an updated hint string
type HintData struct {
	Hint string `json:"hint"`
}

// ChatData is a chat line, either a player's visible guess or a system
// announcement
type ChatData struct {
	From    string `json:"from,omitempty"`
	Message string `json:"message"`
	System  bool   `json:"system,omitempty"`
}

// CorrectGuessData announces a solved word without echoing it
type CorrectGuessData struct {
	ConnID  string             `json:"conn_id"`
	Name    string             `json:"name"`
	Points  int                `json:"points"`
	Message string             `json:"message"`
	Roster  []room.RosterEntry `json:"roster"`
}

// TurnEndedData reveals the word at the end of a turn
type TurnEndedData struct {
	Word    string             `json:"word"`
	Reason  room.TurnEndReason `json:"reason"`
	Message string             `json:"message"`
	Roster  []room.RosterEntry `json:"roster"`
}

// GameOverData carries the final standings
type GameOverData struct {
	Standings []StandingData `json:"standings"`
	Message   string         `json:"message"`
}

// StandingData is one row of the final ranking
type StandingData struct {
	Rank   int    `json:"rank"`
	ConnID string `json:"conn_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// ErrorData reports a rejected client action
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func marshalEnvelope(msgType string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Envelope{Type: msgType, Data: raw})
}
