package room

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/scrawlgame/scrawl/internal/hint"
	"github.com/scrawlgame/scrawl/internal/models"
	"github.com/scrawlgame/scrawl/internal/repositories/wordpack"
)

// session is the per-room aggregate. All fields are guarded by mu; every
// public service operation locks the session for its whole duration, which
// is what makes the reconnect rewrite and racing timer handlers safe.
type session struct {
	mu sync.Mutex

	id string

	phase Phase

	// canonical player table, keyed by stable seat id
	players map[string]*models.Player

	// connection identity -> seat id
	connIndex map[string]string

	// seat ids in join order, used for roster ordering and stable ties
	seatOrder []string

	ownerSeat string

	// ownerToken remembers the owner's session token so ownership survives
	// a disconnect/reconnect cycle
	ownerToken string

	customWords []string
	pack        string
	maxRounds   int

	// round is zero-based; the game ends when it reaches maxRounds
	round     int
	turnOrder []string
	turnIndex int

	// turnSerial increments on every transition; timer-driven operations
	// carry the serial they were armed with so duplicate or superseded
	// firings are rejected
	turnSerial int

	drawerSeat  string
	currentWord string
	wordChoices []string
	revealOrder []int
	revealCount int

	// turnSettled is true between the turn-end reveal and the advance to
	// the next drawer
	turnSettled bool

	// guessed holds the seat ids that solved the current word
	guessed map[string]bool

	turnStart time.Time

	strokes []models.Stroke

	// held seats keyed by session token, surviving until reconnect or
	// grace expiry
	held map[string]*models.HeldSeat
}

func newSession(id, pack string, maxRounds int, customWords []string) *session {
	return &session{
		id:          id,
		phase:       PhaseWaiting,
		players:     make(map[string]*models.Player),
		connIndex:   make(map[string]string),
		guessed:     make(map[string]bool),
		held:        make(map[string]*models.HeldSeat),
		pack:        pack,
		maxRounds:   maxRounds,
		customWords: customWords,
		turnIndex:   -1,
	}
}

func (sess *session) playerByConnLocked(connID string) (*models.Player, bool) {
	seat, ok := sess.connIndex[connID]
	if !ok {
		return nil, false
	}
	p, ok := sess.players[seat]
	return p, ok
}

func (sess *session) addPlayerLocked(p *models.Player) {
	sess.players[p.SeatID] = p
	sess.connIndex[p.ConnID] = p.SeatID
	sess.seatOrder = append(sess.seatOrder, p.SeatID)
}

func (sess *session) removeSeatFromOrderLocked(seat string) {
	for i, s := range sess.seatOrder {
		if s == seat {
			sess.seatOrder = append(sess.seatOrder[:i], sess.seatOrder[i+1:]...)
			return
		}
	}
}

func (sess *session) rosterLocked() []RosterEntry {
	roster := make([]RosterEntry, 0, len(sess.players))
	for _, seat := range sess.seatOrder {
		p, ok := sess.players[seat]
		if !ok {
			continue
		}
		roster = append(roster, RosterEntry{
			ConnID:    p.ConnID,
			Name:      p.Name,
			Score:     p.Score,
			Avatar:    p.Avatar,
			IsDrawing: p.IsDrawing,
			Guessed:   sess.guessed[seat],
			IsOwner:   seat == sess.ownerSeat,
		})
	}
	return roster
}

// clearTurnTransientsLocked resets everything scoped to a single turn
func (sess *session) clearTurnTransientsLocked() {
	sess.currentWord = ""
	sess.wordChoices = nil
	sess.revealOrder = nil
	sess.revealCount = 0
	sess.guessed = make(map[string]bool)
	sess.strokes = nil
	sess.turnSettled = false
	if sess.drawerSeat != "" {
		if p, ok := sess.players[sess.drawerSeat]; ok {
			p.IsDrawing = false
		}
		sess.drawerSeat = ""
	}
}

// forceWaitingLocked drops the room back to the waiting phase. The caller
// reports ForcedWaiting so the orchestration layer cancels every timer.
func (sess *session) forceWaitingLocked() {
	sess.clearTurnTransientsLocked()
	sess.turnOrder = nil
	sess.turnIndex = -1
	sess.round = 0
	sess.phase = PhaseWaiting
	sess.turnSerial++
}

func (sess *session) standingsLocked() []models.Standing {
	type row struct {
		seat  string
		name  string
		conn  string
		score int
	}
	rows := make([]row, 0, len(sess.players))
	for _, seat := range sess.seatOrder {
		p, ok := sess.players[seat]
		if !ok {
			continue
		}
		rows = append(rows, row{seat: seat, name: p.Name, conn: p.ConnID, score: p.Score})
	}

	// descending by score, join order breaks ties
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].score > rows[j].score
	})

	standings := make([]models.Standing, 0, len(rows))
	for i, r := range rows {
		standings = append(standings, models.Standing{
			Rank:   i + 1,
			ConnID: r.conn,
			Name:   r.name,
			Score:  r.score,
		})
	}
	return standings
}

// advanceLocked selects the next drawer, wrapping the turn order and
// advancing the round counter. Vacant seats are skipped without burning a
// round. Nothing is committed until the word choices are in hand, so a
// word-pool failure leaves the session untouched.
func (s *service) advanceLocked(ctx context.Context, sess *session) (*AdvanceTurnOutput, error) {
	if len(sess.turnOrder) == 0 {
		return nil, ErrInvalidPhase
	}

	idx := sess.turnIndex
	rnd := sess.round
	var drawer *models.Player

	for {
		idx++
		if idx >= len(sess.turnOrder) {
			idx = 0
			rnd++
		}

		if rnd >= sess.maxRounds {
			sess.turnIndex = idx
			sess.round = rnd
			sess.clearTurnTransientsLocked()
			sess.phase = PhaseGameOver
			sess.turnSerial++
			return &AdvanceTurnOutput{
				GameOver: &GameOverOutcome{Standings: sess.standingsLocked()},
			}, nil
		}

		if p, ok := sess.players[sess.turnOrder[idx]]; ok {
			drawer = p
			break
		}
	}

	choices, err := s.drawChoicesLocked(ctx, sess)
	if err != nil {
		return nil, err
	}

	sess.turnIndex = idx
	sess.round = rnd
	sess.clearTurnTransientsLocked()
	sess.drawerSeat = drawer.SeatID
	drawer.IsDrawing = true
	sess.wordChoices = choices
	sess.phase = PhaseChoosing
	sess.turnSerial++

	return &AdvanceTurnOutput{
		Choosing: &ChoosingOutcome{
			DrawerConnID: drawer.ConnID,
			DrawerName:   drawer.Name,
			Choices:      choices,
			Round:        rnd + 1,
			MaxRounds:    sess.maxRounds,
			TurnSerial:   sess.turnSerial,
		},
	}, nil
}

// drawChoicesLocked samples the word choices from the active pool: the
// custom list when it survived normalization with enough entries, the
// configured pack otherwise.
func (s *service) drawChoicesLocked(ctx context.Context, sess *session) ([]string, error) {
	count := s.config.WordChoiceCount

	if len(sess.customWords) >= models.MinCustomWords {
		return s.shuffler.Pick(sess.customWords, count), nil
	}

	out, err := s.wordPackRepo.Draw(ctx, &wordpack.DrawInput{
		Pack:  sess.pack,
		Count: count,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to draw word choices: %w", err)
	}
	return out.Words, nil
}

// beginTurnLocked commits the chosen word and opens the drawing phase
func (s *service) beginTurnLocked(sess *session, word string) *TurnStartOutcome {
	drawer := sess.players[sess.drawerSeat]

	sess.currentWord = word
	sess.turnStart = s.clock.Now()
	sess.revealOrder = s.hints.RevealOrder(word)
	sess.revealCount = 0
	sess.phase = PhaseDrawing
	sess.turnSettled = false
	sess.turnSerial++

	return &TurnStartOutcome{
		DrawerConnID: drawer.ConnID,
		Word:         word,
		WordLength:   utf8.RuneCountInString(word),
		BlankHint:    hint.Blank(word),
		Duration:     s.config.TurnDuration,
		Round:        sess.round + 1,
		MaxRounds:    sess.maxRounds,
		TurnSerial:   sess.turnSerial,
	}
}

// endTurnLocked reveals the word and freezes the turn until the settle
// delay elapses and the advance fires.
func (sess *session) endTurnLocked(reason TurnEndReason) *TurnEndOutcome {
	sess.turnSettled = true
	sess.turnSerial++

	return &TurnEndOutcome{
		Word:       sess.currentWord,
		Reason:     reason,
		Roster:     sess.rosterLocked(),
		TurnSerial: sess.turnSerial,
	}
}

func (sess *session) currentHintLocked() string {
	if sess.phase != PhaseDrawing || sess.currentWord == "" {
		return ""
	}
	return hint.Render(sess.currentWord, sess.revealOrder, sess.revealCount)
}

func (s *service) timeRemainingLocked(sess *session) int {
	if sess.phase != PhaseDrawing || sess.turnSettled {
		return 0
	}
	elapsed := s.clock.Now().Sub(sess.turnStart)
	left := s.config.TurnDuration - elapsed
	if left < 0 {
		return 0
	}
	return int(math.Round(left.Seconds()))
}

func (sess *session) emptyLocked() bool {
	return len(sess.players) == 0 && len(sess.held) == 0
}
