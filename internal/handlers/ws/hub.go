package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/scrawlgame/scrawl/internal/services/announcer"
	"github.com/scrawlgame/scrawl/internal/services/room"
)

// Timer keys within a room. One timer per key; arming a key cancels the
// previous timer under it.
const (
	timerChoose  = "choose"
	timerTurn    = "turn"
	timerHintOne = "hint1"
	timerHintTwo = "hint2"
	timerSettle  = "settle"
)

// Config holds the handler dependencies
type Config struct {
	RoomService room.Service
	Announcer   announcer.Service
	Logger      zerolog.Logger

	// AllowedOrigins restricts websocket upgrades; empty allows any origin
	AllowedOrigins []string

	// Timing must match the room service configuration
	ChooseTimeout time.Duration
	TurnDuration  time.Duration
	SettleDelay   time.Duration
	GraceTimeout  time.Duration
}

// Handler owns the live connections and the timers that drive the room
// service's scheduled transitions
type Handler struct {
	roomService room.Service
	announcer   announcer.Service
	logger      zerolog.Logger

	chooseTimeout time.Duration
	turnDuration  time.Duration
	settleDelay   time.Duration
	graceTimeout  time.Duration

	upgrader websocket.Upgrader

	mu    sync.Mutex
	rooms map[string]*roomHub
}

// roomHub tracks one room's connections and pending timers
type roomHub struct {
	clients map[string]*client
	timers  map[string]*time.Timer
	grace   map[string]*time.Timer
}

// NewHandler creates a websocket handler
func NewHandler(cfg *Config) (*Handler, error) {
	if cfg == nil || cfg.RoomService == nil {
		return nil, errors.New("room service is required")
	}
	if cfg.Announcer == nil {
		return nil, errors.New("announcer service is required")
	}

	h := &Handler{
		roomService:   cfg.RoomService,
		announcer:     cfg.Announcer,
		logger:        cfg.Logger,
		chooseTimeout: cfg.ChooseTimeout,
		turnDuration:  cfg.TurnDuration,
		settleDelay:   cfg.SettleDelay,
		graceTimeout:  cfg.GraceTimeout,
		upgrader:      newUpgrader(cfg.AllowedOrigins),
		rooms:         make(map[string]*roomHub),
	}

	if h.chooseTimeout == 0 {
		h.chooseTimeout = 15 * time.Second
	}
	if h.turnDuration == 0 {
		h.turnDuration = 80 * time.Second
	}
	if h.settleDelay == 0 {
		h.settleDelay = 5 * time.Second
	}
	if h.graceTimeout == 0 {
		h.graceTimeout = 30 * time.Second
	}

	return h, nil
}

func (h *Handler) hubFor(roomID string) *roomHub {
	h.mu.Lock()
	defer h.mu.Unlock()

	hub, ok := h.rooms[roomID]
	if !ok {
		hub = &roomHub{
			clients: make(map[string]*client),
			timers:  make(map[string]*time.Timer),
			grace:   make(map[string]*time.Timer),
		}
		h.rooms[roomID] = hub
	}
	return hub
}

func (h *Handler) register(c *client) {
	hub := h.hubFor(c.roomID)

	h.mu.Lock()
	hub.clients[c.connID] = c
	// a reconnect supersedes any pending seat eviction
	if t, ok := hub.grace[c.sessionToken]; ok {
		t.Stop()
		delete(hub.grace, c.sessionToken)
	}
	h.mu.Unlock()
}

// dropRoom cancels every pending timer and forgets the room
func (h *Handler) dropRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	hub, ok := h.rooms[roomID]
	if !ok {
		return
	}
	for _, t := range hub.timers {
		t.Stop()
	}
	for _, t := range hub.grace {
		t.Stop()
	}
	delete(h.rooms, roomID)
}

// armTimer schedules fn under the given key, cancelling any timer already
// armed there
func (h *Handler) armTimer(roomID, key string, d time.Duration, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	hub, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if t, ok := hub.timers[key]; ok {
		t.Stop()
	}
	hub.timers[key] = time.AfterFunc(d, fn)
}

func (h *Handler) cancelTimers(roomID string, keys ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	hub, ok := h.rooms[roomID]
	if !ok {
		return
	}
	for _, key := range keys {
		if t, ok := hub.timers[key]; ok {
			t.Stop()
			delete(hub.timers, key)
		}
	}
}

func (h *Handler) cancelAllTurnTimers(roomID string) {
	h.cancelTimers(roomID, timerChoose, timerTurn, timerHintOne, timerHintTwo, timerSettle)
}

// broadcast sends one message to every client in the room
func (h *Handler) broadcast(roomID, msgType string, data interface{}) {
	raw, err := marshalEnvelope(msgType, data)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msgType).Msg("failed to marshal broadcast")
		return
	}

	h.mu.Lock()
	hub, ok := h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	clients := make([]*client, 0, len(hub.clients))
	for _, c := range hub.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if !c.enqueue(raw) {
			h.logger.Warn().Str("room_id", roomID).Str("conn_id", c.connID).Msg("send buffer full, dropping message")
		}
	}
}

// broadcastExcept sends to everyone but one connection
func (h *Handler) broadcastExcept(roomID, exceptConnID, msgType string, data interface{}) {
	raw, err := marshalEnvelope(msgType, data)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msgType).Msg("failed to marshal broadcast")
		return
	}

	h.mu.Lock()
	hub, ok := h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	clients := make([]*client, 0, len(hub.clients))
	for _, c := range hub.clients {
		if c.connID != exceptConnID {
			clients = append(clients, c)
		}
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.enqueue(raw)
	}
}

// sendTo delivers one message to a single connection
func (h *Handler) sendTo(roomID, connID, msgType string, data interface{}) {
	raw, err := marshalEnvelope(msgType, data)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msgType).Msg("failed to marshal message")
		return
	}

	h.mu.Lock()
	hub, ok := h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	c, ok := hub.clients[connID]
	h.mu.Unlock()

	if ok {
		c.enqueue(raw)
	}
}

func (h *Handler) sendError(c *client, err error) {
	h.sendTo(c.roomID, c.connID, TypeError, &ErrorData{
		Code:    errorCode(err),
		Message: err.Error(),
	})
}

// dispatch routes one inbound packet to the matching room operation
func (h *Handler) dispatch(c *client, env *Envelope) {
	ctx := context.Background()

	switch env.Type {
	case TypeStartGame:
		h.handleStartGame(ctx, c)
	case TypeChooseWord:
		h.handleChooseWord(ctx, c, env.Data)
	case TypeGuess:
		h.handleGuess(ctx, c, env.Data)
	case TypeStroke:
		h.handleStroke(ctx, c, env.Data)
	default:
		h.logger.Debug().Str("type", env.Type).Msg("unknown message type")
	}
}

func (h *Handler) handleStartGame(ctx context.Context, c *client) {
	out, err := h.roomService.StartGame(ctx, &room.StartGameInput{
		RoomID: c.roomID,
		ConnID: c.connID,
	})
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.onChoosing(c.roomID, out.Choosing)
}

func (h *Handler) handleChooseWord(ctx context.Context, c *client, data json.RawMessage) {
	var pick ChooseWordData
	if err := json.Unmarshal(data, &pick); err != nil {
		h.sendError(c, room.ErrInvalidChoice)
		return
	}

	out, err := h.roomService.ChooseWord(ctx, &room.ChooseWordInput{
		RoomID: c.roomID,
		ConnID: c.connID,
		Word:   pick.Word,
	})
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.onTurnStart(c.roomID, out.TurnStart)
}

func (h *Handler) handleGuess(ctx context.Context, c *client, data json.RawMessage) {
	var guess GuessData
	if err := json.Unmarshal(data, &guess); err != nil {
		h.sendError(c, room.ErrInvalidGuess)
		return
	}

	out, err := h.roomService.SubmitGuess(ctx, &room.SubmitGuessInput{
		RoomID: c.roomID,
		ConnID: c.connID,
		Guess:  guess.Text,
	})
	if err != nil {
		h.sendError(c, err)
		return
	}

	switch {
	case out.Result.Correct:
		line, msgErr := h.announcer.GetCorrectGuessMessage(ctx, &announcer.GetCorrectGuessMessageInput{
			PlayerName: c.name,
			Points:     out.Result.GuesserPoints,
		})
		message := ""
		if msgErr == nil {
			message = line.Message
		}

		snap, snapErr := h.roomService.Snapshot(ctx, &room.SnapshotInput{RoomID: c.roomID})
		var roster []room.RosterEntry
		if snapErr == nil {
			roster = snap.Roster
		}

		h.broadcast(c.roomID, TypeCorrectGuess, &CorrectGuessData{
			ConnID:  c.connID,
			Name:    c.name,
			Points:  out.Result.GuesserPoints,
			Message: message,
			Roster:  roster,
		})

		if out.TurnEnd != nil {
			h.onTurnEnd(c.roomID, out.TurnEnd)
		}

	case out.Result.Close:
		line, msgErr := h.announcer.GetCloseGuessMessage(ctx, &announcer.GetCloseGuessMessageInput{PlayerName: c.name})
		message := "So close!"
		if msgErr == nil {
			message = line.Message
		}
		h.sendTo(c.roomID, c.connID, TypeCloseGuess, &ChatData{Message: message, System: true})

	default:
		// a plain wrong guess is visible chat
		h.broadcast(c.roomID, TypeChat, &ChatData{From: c.name, Message: guess.Text})
	}
}

func (h *Handler) handleStroke(ctx context.Context, c *client, data json.RawMessage) {
	_, err := h.roomService.AddStroke(ctx, &room.AddStrokeInput{
		RoomID:  c.roomID,
		ConnID:  c.connID,
		Payload: data,
	})
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.broadcastExcept(c.roomID, c.connID, TypeStrokeEvent, data)
}

// onChoosing announces the next drawer and arms the choose timer. The word
// choices go to the drawer alone.
func (h *Handler) onChoosing(roomID string, choosing *room.ChoosingOutcome) {
	if choosing == nil {
		return
	}

	h.cancelAllTurnTimers(roomID)

	h.broadcast(roomID, TypeTurnChoosing, &TurnChoosingData{
		DrawerConnID: choosing.DrawerConnID,
		DrawerName:   choosing.DrawerName,
		Round:        choosing.Round,
		MaxRounds:    choosing.MaxRounds,
		TimeLimit:    int(h.chooseTimeout.Seconds()),
	})

	h.sendTo(roomID, choosing.DrawerConnID, TypeWordChoices, &WordChoicesData{
		Choices:   choosing.Choices,
		TimeLimit: int(h.chooseTimeout.Seconds()),
	})

	serial := choosing.TurnSerial
	h.armTimer(roomID, timerChoose, h.chooseTimeout, func() {
		out, err := h.roomService.ChooseTimeout(context.Background(), &room.ChooseTimeoutInput{
			RoomID:     roomID,
			TurnSerial: serial,
		})
		if err != nil {
			h.logTimerError(roomID, "choose timeout", err)
			return
		}
		h.onTurnStart(roomID, out.TurnStart)
	})
}

// onTurnStart announces the drawing phase and arms the turn and hint
// timers. The committed word goes to the drawer alone.
func (h *Handler) onTurnStart(roomID string, start *room.TurnStartOutcome) {
	if start == nil {
		return
	}

	h.cancelTimers(roomID, timerChoose)

	h.broadcast(roomID, TypeTurnStarted, &TurnStartedData{
		DrawerConnID: start.DrawerConnID,
		Hint:         start.BlankHint,
		Duration:     int(start.Duration.Seconds()),
	})

	h.sendTo(roomID, start.DrawerConnID, TypeYourWord, &YourWordData{Word: start.Word})

	serial := start.TurnSerial

	h.armTimer(roomID, timerTurn, h.turnDuration, func() {
		out, err := h.roomService.TurnTimeout(context.Background(), &room.TurnTimeoutInput{
			RoomID:     roomID,
			TurnSerial: serial,
		})
		if err != nil {
			h.logTimerError(roomID, "turn timeout", err)
			return
		}
		h.onTurnEnd(roomID, out.TurnEnd)
	})

	h.armHintTimer(roomID, timerHintOne, room.HintStageOne, room.HintStageOneFraction, serial)
	h.armHintTimer(roomID, timerHintTwo, room.HintStageTwo, room.HintStageTwoFraction, serial)
}

func (h *Handler) armHintTimer(roomID, key string, stage int, fraction float64, serial int) {
	delay := time.Duration(float64(h.turnDuration) * fraction)

	h.armTimer(roomID, key, delay, func() {
		out, err := h.roomService.RevealHint(context.Background(), &room.RevealHintInput{
			RoomID:     roomID,
			TurnSerial: serial,
			Stage:      stage,
		})
		if err != nil {
			h.logTimerError(roomID, "hint reveal", err)
			return
		}
		h.broadcast(roomID, TypeHint, &HintData{Hint: out.Hint})
	})
}

// onTurnEnd broadcasts the reveal and arms the settle timer that moves the
// room to the next turn
func (h *Handler) onTurnEnd(roomID string, end *room.TurnEndOutcome) {
	if end == nil {
		return
	}

	h.cancelTimers(roomID, timerTurn, timerHintOne, timerHintTwo)

	line, err := h.announcer.GetTurnRevealMessage(context.Background(), &announcer.GetTurnRevealMessageInput{
		Word:   end.Word,
		Reason: end.Reason,
	})
	message := ""
	if err == nil {
		message = line.Message
	}

	h.broadcast(roomID, TypeTurnEnded, &TurnEndedData{
		Word:    end.Word,
		Reason:  end.Reason,
		Message: message,
		Roster:  end.Roster,
	})

	serial := end.TurnSerial
	h.armTimer(roomID, timerSettle, h.settleDelay, func() {
		out, advErr := h.roomService.AdvanceTurn(context.Background(), &room.AdvanceTurnInput{
			RoomID:     roomID,
			TurnSerial: serial,
		})
		if advErr != nil {
			h.logTimerError(roomID, "turn advance", advErr)
			return
		}
		h.onAdvance(roomID, out)
	})
}

// onAdvance fans out whichever continuation the advance produced
func (h *Handler) onAdvance(roomID string, out *room.AdvanceTurnOutput) {
	if out == nil {
		return
	}

	if out.GameOver != nil {
		h.onGameOver(roomID, out.GameOver)
		return
	}

	h.onChoosing(roomID, out.Choosing)
}

func (h *Handler) onGameOver(roomID string, over *room.GameOverOutcome) {
	h.cancelAllTurnTimers(roomID)

	standings := make([]StandingData, 0, len(over.Standings))
	for _, s := range over.Standings {
		standings = append(standings, StandingData{
			Rank:   s.Rank,
			ConnID: s.ConnID,
			Name:   s.Name,
			Score:  s.Score,
		})
	}

	message := ""
	if len(over.Standings) > 0 {
		top := over.Standings[0]
		tied := len(over.Standings) > 1 && over.Standings[1].Score == top.Score
		line, err := h.announcer.GetGameOverMessage(context.Background(), &announcer.GetGameOverMessageInput{
			WinnerName:  top.Name,
			WinnerScore: top.Score,
			Tied:        tied,
		})
		if err == nil {
			message = line.Message
		}
	}

	h.broadcast(roomID, TypeGameOver, &GameOverData{Standings: standings, Message: message})
}

// disconnect reports a dead connection to the room service and fans out
// the consequences
func (h *Handler) disconnect(c *client) {
	h.mu.Lock()
	if hub, ok := h.rooms[c.roomID]; ok {
		if current, ok := hub.clients[c.connID]; ok && current == c {
			delete(hub.clients, c.connID)
		}
	}
	h.mu.Unlock()

	c.shutdown()

	out, err := h.roomService.Disconnect(context.Background(), &room.DisconnectInput{
		RoomID: c.roomID,
		ConnID: c.connID,
	})
	if err != nil {
		// the seat may already be gone, a reconnect replaced it
		h.logger.Debug().Err(err).Str("room_id", c.roomID).Str("conn_id", c.connID).Msg("disconnect")
		return
	}

	if out.RoomEmpty {
		h.dropRoom(c.roomID)
		return
	}

	line, msgErr := h.announcer.GetLeaveMessage(context.Background(), &announcer.GetLeaveMessageInput{
		PlayerName: out.Name,
		SeatHeld:   out.Held,
		WasDrawer:  out.TurnEnd != nil && out.TurnEnd.Reason == room.TurnEndDrawerLeft,
	})
	message := ""
	if msgErr == nil {
		message = line.Message
	}

	h.broadcast(c.roomID, TypePlayerLeft, &PlayerEventData{
		ConnID:  c.connID,
		Name:    out.Name,
		Message: message,
		Roster:  out.Roster,
	})

	switch {
	case out.ForcedWaiting:
		h.cancelAllTurnTimers(c.roomID)
	case out.TurnEnd != nil:
		h.onTurnEnd(c.roomID, out.TurnEnd)
	case out.NextTurn != nil:
		h.onAdvance(c.roomID, out.NextTurn)
	}

	if out.Held {
		h.armGraceTimer(c.roomID, out.SessionToken)
	}
}

// armGraceTimer schedules the seat eviction that runs when a disconnected
// player never comes back
func (h *Handler) armGraceTimer(roomID, token string) {
	h.mu.Lock()
	hub, ok := h.rooms[roomID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if t, ok := hub.grace[token]; ok {
		t.Stop()
	}
	hub.grace[token] = time.AfterFunc(h.graceTimeout, func() {
		h.mu.Lock()
		if hub, ok := h.rooms[roomID]; ok {
			delete(hub.grace, token)
		}
		h.mu.Unlock()

		out, err := h.roomService.ExpireSeat(context.Background(), &room.ExpireSeatInput{
			RoomID:       roomID,
			SessionToken: token,
		})
		if err != nil {
			// the player reconnected in time
			return
		}
		if out.RoomEmpty {
			h.dropRoom(roomID)
		}
	})
	h.mu.Unlock()
}

func (h *Handler) logTimerError(roomID, op string, err error) {
	if errors.Is(err, room.ErrStaleTimer) || errors.Is(err, room.ErrRoomNotFound) {
		return
	}
	h.logger.Error().Err(err).Str("room_id", roomID).Msg("failed to run " + op)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, room.ErrRoomFull):
		return "room_full"
	case errors.Is(err, room.ErrPlayerNotFound):
		return "player_not_found"
	case errors.Is(err, room.ErrNotOwner):
		return "not_owner"
	case errors.Is(err, room.ErrNotEnoughPlayers):
		return "not_enough_players"
	case errors.Is(err, room.ErrInvalidPhase):
		return "invalid_phase"
	case errors.Is(err, room.ErrNotDrawer):
		return "not_drawer"
	case errors.Is(err, room.ErrDrawerCannotGuess):
		return "drawer_cannot_guess"
	case errors.Is(err, room.ErrAlreadyGuessed):
		return "already_guessed"
	case errors.Is(err, room.ErrInvalidChoice):
		return "invalid_choice"
	case errors.Is(err, room.ErrInvalidGuess):
		return "invalid_guess"
	default:
		return "internal"
	}
}
