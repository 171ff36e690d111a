package room

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scrawlgame/scrawl/internal/common/clock"
	"github.com/scrawlgame/scrawl/internal/hint"
	"github.com/scrawlgame/scrawl/internal/models"
	"github.com/scrawlgame/scrawl/internal/repositories/wordpack"
	"github.com/scrawlgame/scrawl/internal/shuffle"
)

// service implements the Service interface
type service struct {
	config       *Config
	wordPackRepo wordpack.Repository
	clock        clock.Clock
	shuffler     *shuffle.Shuffler
	hints        *hint.Engine
	logger       zerolog.Logger

	locker sync.RWMutex
	rooms  map[string]*session
}

// New creates a new room service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.WordPackRepo == nil {
		return nil, errors.New("word pack repository cannot be nil")
	}

	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	if cfg.Shuffler == nil {
		cfg.Shuffler = shuffle.New(nil)
	}

	// Set default values if not provided
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = 8
	}
	if cfg.DefaultRounds == 0 {
		cfg.DefaultRounds = 3
	}
	if cfg.WordChoiceCount == 0 {
		cfg.WordChoiceCount = 3
	}
	if cfg.ChooseTimeout == 0 {
		cfg.ChooseTimeout = 15 * time.Second
	}
	if cfg.TurnDuration == 0 {
		cfg.TurnDuration = 80 * time.Second
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = 5 * time.Second
	}
	if cfg.GraceTimeout == 0 {
		cfg.GraceTimeout = 30 * time.Second
	}

	return &service{
		config:       cfg,
		wordPackRepo: cfg.WordPackRepo,
		clock:        cfg.Clock,
		shuffler:     cfg.Shuffler,
		hints:        hint.New(cfg.Shuffler),
		logger:       cfg.Logger.With().Str("component", "room").Logger(),
		rooms:        make(map[string]*session),
	}, nil
}

func (s *service) getRoom(roomID string) (*session, error) {
	s.locker.RLock()
	sess, ok := s.rooms[roomID]
	s.locker.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	return sess, nil
}

func (s *service) removeRoomIfEmpty(sess *session) bool {
	sess.mu.Lock()
	empty := sess.emptyLocked()
	sess.mu.Unlock()

	if !empty {
		return false
	}

	s.locker.Lock()
	delete(s.rooms, sess.id)
	s.locker.Unlock()

	s.logger.Info().Str("room_id", sess.id).Msg("room torn down")
	return true
}

// CreateRoom creates a room with the caller as owner
func (s *service) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil || input.ConnID == "" {
		return nil, errors.New("input and connection id cannot be empty")
	}

	rounds := input.Rounds
	if rounds == 0 {
		rounds = s.config.DefaultRounds
	}
	if rounds < MinRounds {
		rounds = MinRounds
	}
	if rounds > MaxRounds {
		rounds = MaxRounds
	}

	pack := input.Pack
	if pack == "" {
		pack = wordpack.DefaultPack
	}

	// A malformed custom list just disables custom mode
	customWords := models.NormalizeWordList(input.CustomWords)

	roomID := uuid.New().String()
	sess := newSession(roomID, pack, rounds, customWords)

	sess.mu.Lock()
	owner := &models.Player{
		SeatID:       uuid.New().String(),
		ConnID:       input.ConnID,
		Name:         strings.TrimSpace(input.Name),
		Avatar:       input.Avatar,
		SessionToken: input.SessionToken,
	}
	sess.addPlayerLocked(owner)
	sess.ownerSeat = owner.SeatID
	sess.ownerToken = input.SessionToken
	roster := sess.rosterLocked()
	sess.mu.Unlock()

	s.locker.Lock()
	s.rooms[roomID] = sess
	s.locker.Unlock()

	s.logger.Info().Str("room_id", roomID).Str("owner", owner.Name).Int("rounds", rounds).Msg("room created")

	return &CreateRoomOutput{
		RoomID: roomID,
		Roster: roster,
	}, nil
}

// JoinRoom adds a player to an existing room
func (s *service) JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.players) >= s.config.MaxPlayers {
		return nil, ErrRoomFull
	}

	p := &models.Player{
		SeatID:       uuid.New().String(),
		ConnID:       input.ConnID,
		Name:         strings.TrimSpace(input.Name),
		Avatar:       input.Avatar,
		SessionToken: input.SessionToken,
	}
	sess.addPlayerLocked(p)

	// an ownerless room adopts the first arrival
	if sess.ownerSeat == "" {
		sess.ownerSeat = p.SeatID
		sess.ownerToken = p.SessionToken
	}

	return &JoinRoomOutput{
		Roster: sess.rosterLocked(),
		Phase:  sess.phase,
	}, nil
}

// StartGame starts the game; owner only, needs two players
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	caller, ok := sess.playerByConnLocked(input.ConnID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if caller.SeatID != sess.ownerSeat {
		return nil, ErrNotOwner
	}
	if sess.phase != PhaseWaiting && sess.phase != PhaseGameOver {
		return nil, ErrInvalidPhase
	}
	if len(sess.players) < MinPlayersToStart {
		return nil, ErrNotEnoughPlayers
	}

	for _, p := range sess.players {
		p.Score = 0
	}

	seats := make([]string, 0, len(sess.players))
	for _, seat := range sess.seatOrder {
		if _, ok := sess.players[seat]; ok {
			seats = append(seats, seat)
		}
	}
	s.shuffler.Shuffle(seats)

	sess.turnOrder = seats
	sess.turnIndex = -1
	sess.round = 0

	adv, err := s.advanceLocked(ctx, sess)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("room_id", sess.id).Int("players", len(seats)).Msg("game started")

	return &StartGameOutput{Choosing: adv.Choosing}, nil
}

// ChooseWord commits the drawer's pick and starts the turn
func (s *service) ChooseWord(ctx context.Context, input *ChooseWordInput) (*ChooseWordOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.phase != PhaseChoosing {
		return nil, ErrInvalidPhase
	}

	caller, ok := sess.playerByConnLocked(input.ConnID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if caller.SeatID != sess.drawerSeat {
		return nil, ErrNotDrawer
	}

	word := strings.TrimSpace(input.Word)
	if word == "" {
		return nil, ErrInvalidChoice
	}

	offered := false
	for _, c := range sess.wordChoices {
		if c == word {
			offered = true
			break
		}
	}
	if !offered {
		return nil, ErrInvalidChoice
	}

	return &ChooseWordOutput{TurnStart: s.beginTurnLocked(sess, word)}, nil
}

// ChooseTimeout auto-picks a word when the drawer never chose
func (s *service) ChooseTimeout(ctx context.Context, input *ChooseTimeoutInput) (*ChooseTimeoutOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// The drawer may have picked in the meantime
	if sess.phase != PhaseChoosing || sess.turnSerial != input.TurnSerial {
		return nil, ErrStaleTimer
	}
	if len(sess.wordChoices) == 0 {
		return nil, ErrInvalidPhase
	}
	if _, ok := sess.players[sess.drawerSeat]; !ok {
		return nil, ErrStaleTimer
	}

	word := sess.wordChoices[s.shuffler.Intn(len(sess.wordChoices))]

	return &ChooseTimeoutOutput{TurnStart: s.beginTurnLocked(sess, word)}, nil
}

// TurnTimeout force-ends the turn when the timer expires
func (s *service) TurnTimeout(ctx context.Context, input *TurnTimeoutInput) (*TurnTimeoutOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// The turn may already have ended on an all-guessed
	if sess.phase != PhaseDrawing || sess.turnSettled || sess.turnSerial != input.TurnSerial {
		return nil, ErrStaleTimer
	}

	return &TurnTimeoutOutput{TurnEnd: sess.endTurnLocked(TurnEndTimeout)}, nil
}

// AdvanceTurn moves to the next drawer after the settle delay
func (s *service) AdvanceTurn(ctx context.Context, input *AdvanceTurnInput) (*AdvanceTurnOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// Duplicate firings for the same expired turn must not double-advance
	if sess.phase != PhaseDrawing || !sess.turnSettled || sess.turnSerial != input.TurnSerial {
		return nil, ErrStaleTimer
	}

	return s.advanceLocked(ctx, sess)
}

// RevealHint discloses the next hint stage
func (s *service) RevealHint(ctx context.Context, input *RevealHintInput) (*RevealHintOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.phase != PhaseDrawing || sess.turnSettled || sess.turnSerial != input.TurnSerial {
		return nil, ErrStaleTimer
	}

	// Reveal count only moves forward
	if input.Stage > sess.revealCount {
		sess.revealCount = input.Stage
		if sess.revealCount > len(sess.revealOrder) {
			sess.revealCount = len(sess.revealOrder)
		}
	}

	return &RevealHintOutput{Hint: sess.currentHintLocked()}, nil
}

// AddStroke appends a drawing event to the turn's stroke log
func (s *service) AddStroke(ctx context.Context, input *AddStrokeInput) (*AddStrokeOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.phase != PhaseDrawing || sess.turnSettled {
		return nil, ErrInvalidPhase
	}

	caller, ok := sess.playerByConnLocked(input.ConnID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if caller.SeatID != sess.drawerSeat {
		return nil, ErrNotDrawer
	}

	stroke := models.Stroke{
		Seq:     len(sess.strokes) + 1,
		Payload: input.Payload,
	}
	sess.strokes = append(sess.strokes, stroke)

	return &AddStrokeOutput{Seq: stroke.Seq}, nil
}

// Snapshot returns the full room view for one connection
func (s *service) Snapshot(ctx context.Context, input *SnapshotInput) (*SnapshotOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := &SnapshotOutput{
		Phase:         sess.phase,
		Round:         sess.round + 1,
		MaxRounds:     sess.maxRounds,
		Roster:        sess.rosterLocked(),
		Hint:          sess.currentHintLocked(),
		TimeRemaining: s.timeRemainingLocked(sess),
		Strokes:       sess.strokes,
	}

	if owner, ok := sess.players[sess.ownerSeat]; ok {
		out.OwnerConnID = owner.ConnID
	}

	if drawer, ok := sess.players[sess.drawerSeat]; ok {
		out.DrawerConnID = drawer.ConnID
		// the word is never disclosed to anyone but the drawer
		if drawer.ConnID == input.ConnID {
			out.Word = sess.currentWord
		}
	}

	return out, nil
}

// TimeRemaining returns the remaining drawing time in seconds
func (s *service) TimeRemaining(ctx context.Context, input *TimeRemainingInput) (*TimeRemainingOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return &TimeRemainingOutput{Seconds: s.timeRemainingLocked(sess)}, nil
}
