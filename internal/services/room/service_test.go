package room

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/scrawlgame/scrawl/internal/common/clock/mocks"
	"github.com/scrawlgame/scrawl/internal/repositories/wordpack"
	wordpackMocks "github.com/scrawlgame/scrawl/internal/repositories/wordpack/mocks"
	"github.com/scrawlgame/scrawl/internal/shuffle"
)

type RoomServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockWordRepo *wordpackMocks.MockRepository
	mockClock    *clockMocks.MockClock
	roomService  *service
	ctx          context.Context

	// now is the settable time returned by the mocked clock
	now time.Time

	testWords []string
}

func (s *RoomServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockWordRepo = wordpackMocks.NewMockRepository(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)

	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.testWords = []string{"apple", "banana", "cherry"}

	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		return s.now
	}).AnyTimes()

	s.mockWordRepo.EXPECT().Draw(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, input *wordpack.DrawInput) (*wordpack.DrawOutput, error) {
			words := make([]string, len(s.testWords))
			copy(words, s.testWords)
			return &wordpack.DrawOutput{Words: words}, nil
		}).AnyTimes()

	svc, err := New(&Config{
		WordPackRepo: s.mockWordRepo,
		Clock:        s.mockClock,
		Shuffler:     shuffle.New(&shuffle.Config{Seed: 42}),
		Logger:       zerolog.Nop(),
	})
	s.Require().NoError(err)
	s.roomService = svc
}

func (s *RoomServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRoomServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RoomServiceTestSuite))
}

// createRoom creates a room with n players. Player i has connection id
// "conn-i", name "player-i" and session token "tok-i". The creator owns
// the room.
func (s *RoomServiceTestSuite) createRoom(n int, opts ...func(*CreateRoomInput)) string {
	input := &CreateRoomInput{
		ConnID:       "conn-0",
		Name:         "player-0",
		Avatar:       "avatar-0",
		SessionToken: "tok-0",
	}
	for _, opt := range opts {
		opt(input)
	}

	created, err := s.roomService.CreateRoom(s.ctx, input)
	s.Require().NoError(err)

	for i := 1; i < n; i++ {
		_, err := s.roomService.JoinRoom(s.ctx, &JoinRoomInput{
			RoomID:       created.RoomID,
			ConnID:       fmt.Sprintf("conn-%d", i),
			Name:         fmt.Sprintf("player-%d", i),
			Avatar:       fmt.Sprintf("avatar-%d", i),
			SessionToken: fmt.Sprintf("tok-%d", i),
		})
		s.Require().NoError(err)
	}
	return created.RoomID
}

// startTurn starts the game and commits the first offered word, returning
// the room id, the choosing outcome and the turn start outcome.
func (s *RoomServiceTestSuite) startTurn(players int) (string, *ChoosingOutcome, *TurnStartOutcome) {
	roomID := s.createRoom(players)

	started, err := s.roomService.StartGame(s.ctx, &StartGameInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)
	s.Require().NotNil(started.Choosing)

	choosing := started.Choosing
	chosen, err := s.roomService.ChooseWord(s.ctx, &ChooseWordInput{
		RoomID: roomID,
		ConnID: choosing.DrawerConnID,
		Word:   choosing.Choices[0],
	})
	s.Require().NoError(err)

	return roomID, choosing, chosen.TurnStart
}

func (s *RoomServiceTestSuite) TestCreateRoomNormalizesCustomWords() {
	roomID := s.createRoom(1, func(in *CreateRoomInput) {
		in.CustomWords = []string{"Apple", "apple", "  Banana  ", ""}
	})

	sess, err := s.roomService.getRoom(roomID)
	s.Require().NoError(err)
	s.Equal([]string{"Apple", "Banana"}, sess.customWords)
}

func (s *RoomServiceTestSuite) TestCreateRoomClampsRounds() {
	roomID := s.createRoom(1, func(in *CreateRoomInput) {
		in.Rounds = 25
	})

	sess, err := s.roomService.getRoom(roomID)
	s.Require().NoError(err)
	s.Equal(MaxRounds, sess.maxRounds)
}

func (s *RoomServiceTestSuite) TestJoinRoomFullRoom() {
	roomID := s.createRoom(8)

	_, err := s.roomService.JoinRoom(s.ctx, &JoinRoomInput{
		RoomID: roomID,
		ConnID: "conn-late",
		Name:   "late",
	})
	s.Require().ErrorIs(err, ErrRoomFull)
}

func (s *RoomServiceTestSuite) TestJoinRoomUnknownRoom() {
	_, err := s.roomService.JoinRoom(s.ctx, &JoinRoomInput{
		RoomID: "missing",
		ConnID: "conn-9",
	})
	s.Require().ErrorIs(err, ErrRoomNotFound)
}

func (s *RoomServiceTestSuite) TestStartGameRequiresOwner() {
	roomID := s.createRoom(3)

	_, err := s.roomService.StartGame(s.ctx, &StartGameInput{RoomID: roomID, ConnID: "conn-1"})
	s.Require().ErrorIs(err, ErrNotOwner)
}

func (s *RoomServiceTestSuite) TestStartGameNeedsTwoPlayers() {
	roomID := s.createRoom(1)

	_, err := s.roomService.StartGame(s.ctx, &StartGameInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().ErrorIs(err, ErrNotEnoughPlayers)
}

func (s *RoomServiceTestSuite) TestStartGameEmitsChoosing() {
	roomID := s.createRoom(3)

	started, err := s.roomService.StartGame(s.ctx, &StartGameInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)
	s.Require().NotNil(started.Choosing)

	choosing := started.Choosing
	s.Len(choosing.Choices, 3)
	s.Equal(1, choosing.Round)
	s.Equal(3, choosing.MaxRounds)
	s.NotEmpty(choosing.DrawerConnID)

	// scores reset on start
	sess, err := s.roomService.getRoom(roomID)
	s.Require().NoError(err)
	for _, p := range sess.players {
		s.Zero(p.Score)
	}
	s.Len(sess.turnOrder, 3)
}

func (s *RoomServiceTestSuite) TestChooseWordRejectsUnofferedWord() {
	roomID := s.createRoom(2)

	started, err := s.roomService.StartGame(s.ctx, &StartGameInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)

	_, err = s.roomService.ChooseWord(s.ctx, &ChooseWordInput{
		RoomID: roomID,
		ConnID: started.Choosing.DrawerConnID,
		Word:   "not-offered",
	})
	s.Require().ErrorIs(err, ErrInvalidChoice)
}

func (s *RoomServiceTestSuite) TestChooseWordRejectsNonDrawer() {
	roomID := s.createRoom(2)

	started, err := s.roomService.StartGame(s.ctx, &StartGameInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)

	other := "conn-0"
	if started.Choosing.DrawerConnID == "conn-0" {
		other = "conn-1"
	}

	_, err = s.roomService.ChooseWord(s.ctx, &ChooseWordInput{
		RoomID: roomID,
		ConnID: other,
		Word:   started.Choosing.Choices[0],
	})
	s.Require().ErrorIs(err, ErrNotDrawer)
}

func (s *RoomServiceTestSuite) TestChooseWordStartsTurn() {
	_, choosing, turnStart := s.startTurn(2)

	s.Equal(choosing.DrawerConnID, turnStart.DrawerConnID)
	s.Equal(choosing.Choices[0], turnStart.Word)
	s.Equal(len([]rune(turnStart.Word)), turnStart.WordLength)
	s.NotEmpty(turnStart.BlankHint)
	s.NotContains(turnStart.BlankHint, turnStart.Word)
	s.Equal(80*time.Second, turnStart.Duration)
}

func (s *RoomServiceTestSuite) TestChooseTimeoutAutoPicks() {
	roomID := s.createRoom(2)

	started, err := s.roomService.StartGame(s.ctx, &StartGameInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)

	out, err := s.roomService.ChooseTimeout(s.ctx, &ChooseTimeoutInput{
		RoomID:     roomID,
		TurnSerial: started.Choosing.TurnSerial,
	})
	s.Require().NoError(err)
	s.Contains(started.Choosing.Choices, out.TurnStart.Word)
}

func (s *RoomServiceTestSuite) TestChooseTimeoutStaleAfterManualPick() {
	roomID := s.createRoom(2)

	started, err := s.roomService.StartGame(s.ctx, &StartGameInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)

	_, err = s.roomService.ChooseWord(s.ctx, &ChooseWordInput{
		RoomID: roomID,
		ConnID: started.Choosing.DrawerConnID,
		Word:   started.Choosing.Choices[0],
	})
	s.Require().NoError(err)

	_, err = s.roomService.ChooseTimeout(s.ctx, &ChooseTimeoutInput{
		RoomID:     roomID,
		TurnSerial: started.Choosing.TurnSerial,
	})
	s.Require().ErrorIs(err, ErrStaleTimer)
}

func (s *RoomServiceTestSuite) TestTurnTimeoutEndsTurn() {
	roomID, _, turnStart := s.startTurn(2)

	out, err := s.roomService.TurnTimeout(s.ctx, &TurnTimeoutInput{
		RoomID:     roomID,
		TurnSerial: turnStart.TurnSerial,
	})
	s.Require().NoError(err)
	s.Equal(turnStart.Word, out.TurnEnd.Word)
	s.Equal(TurnEndTimeout, out.TurnEnd.Reason)
}

func (s *RoomServiceTestSuite) TestTurnTimeoutIdempotent() {
	roomID, _, turnStart := s.startTurn(2)

	_, err := s.roomService.TurnTimeout(s.ctx, &TurnTimeoutInput{
		RoomID:     roomID,
		TurnSerial: turnStart.TurnSerial,
	})
	s.Require().NoError(err)

	_, err = s.roomService.TurnTimeout(s.ctx, &TurnTimeoutInput{
		RoomID:     roomID,
		TurnSerial: turnStart.TurnSerial,
	})
	s.Require().ErrorIs(err, ErrStaleTimer)
}

func (s *RoomServiceTestSuite) TestAdvanceTurnIdempotent() {
	roomID, _, turnStart := s.startTurn(3)

	ended, err := s.roomService.TurnTimeout(s.ctx, &TurnTimeoutInput{
		RoomID:     roomID,
		TurnSerial: turnStart.TurnSerial,
	})
	s.Require().NoError(err)

	sess, err := s.roomService.getRoom(roomID)
	s.Require().NoError(err)
	roundBefore := sess.round

	first, err := s.roomService.AdvanceTurn(s.ctx, &AdvanceTurnInput{
		RoomID:     roomID,
		TurnSerial: ended.TurnEnd.TurnSerial,
	})
	s.Require().NoError(err)
	s.NotNil(first.Choosing)

	// duplicate firing for the same expired timer is rejected
	_, err = s.roomService.AdvanceTurn(s.ctx, &AdvanceTurnInput{
		RoomID:     roomID,
		TurnSerial: ended.TurnEnd.TurnSerial,
	})
	s.Require().ErrorIs(err, ErrStaleTimer)

	s.LessOrEqual(sess.round, roundBefore+1)
}

func (s *RoomServiceTestSuite) TestFullGameEveryPlayerDrawsEveryRound() {
	const players = 4
	const rounds = 3

	roomID := s.createRoom(players, func(in *CreateRoomInput) {
		in.Rounds = rounds
	})

	started, err := s.roomService.StartGame(s.ctx, &StartGameInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)

	drawsPerConn := make(map[string]int)
	choosing := started.Choosing
	turns := 0

	for {
		s.Require().NotNil(choosing)
		drawsPerConn[choosing.DrawerConnID]++
		turns++
		s.Require().LessOrEqual(turns, players*rounds, "game did not terminate")

		chosen, err := s.roomService.ChooseWord(s.ctx, &ChooseWordInput{
			RoomID: roomID,
			ConnID: choosing.DrawerConnID,
			Word:   choosing.Choices[0],
		})
		s.Require().NoError(err)

		ended, err := s.roomService.TurnTimeout(s.ctx, &TurnTimeoutInput{
			RoomID:     roomID,
			TurnSerial: chosen.TurnStart.TurnSerial,
		})
		s.Require().NoError(err)

		adv, err := s.roomService.AdvanceTurn(s.ctx, &AdvanceTurnInput{
			RoomID:     roomID,
			TurnSerial: ended.TurnEnd.TurnSerial,
		})
		s.Require().NoError(err)

		if adv.GameOver != nil {
			s.Len(adv.GameOver.Standings, players)
			break
		}
		choosing = adv.Choosing
	}

	s.Equal(players*rounds, turns)
	s.Len(drawsPerConn, players)
	for conn, draws := range drawsPerConn {
		s.Equal(rounds, draws, "connection %s drew %d times", conn, draws)
	}

	snap, err := s.roomService.Snapshot(s.ctx, &SnapshotInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)
	s.Equal(PhaseGameOver, snap.Phase)
}

func (s *RoomServiceTestSuite) TestGameOverStandingsSorted() {
	roomID, _, turnStart := s.startTurn(2)

	// one correct guess so scores differ
	guesser := "conn-0"
	if turnStart.DrawerConnID == "conn-0" {
		guesser = "conn-1"
	}

	_, err := s.roomService.SubmitGuess(s.ctx, &SubmitGuessInput{
		RoomID: roomID,
		ConnID: guesser,
		Guess:  turnStart.Word,
	})
	s.Require().NoError(err)

	// burn the remaining turns; maxRounds defaults to 3
	serial := s.currentSerial(roomID)
	for {
		adv, err := s.roomService.AdvanceTurn(s.ctx, &AdvanceTurnInput{RoomID: roomID, TurnSerial: serial})
		s.Require().NoError(err)
		if adv.GameOver != nil {
			standings := adv.GameOver.Standings
			s.Require().Len(standings, 2)
			s.Equal(1, standings[0].Rank)
			s.GreaterOrEqual(standings[0].Score, standings[1].Score)
			return
		}

		chosen, err := s.roomService.ChooseWord(s.ctx, &ChooseWordInput{
			RoomID: roomID,
			ConnID: adv.Choosing.DrawerConnID,
			Word:   adv.Choosing.Choices[0],
		})
		s.Require().NoError(err)

		ended, err := s.roomService.TurnTimeout(s.ctx, &TurnTimeoutInput{
			RoomID:     roomID,
			TurnSerial: chosen.TurnStart.TurnSerial,
		})
		s.Require().NoError(err)
		serial = ended.TurnEnd.TurnSerial
	}
}

func (s *RoomServiceTestSuite) currentSerial(roomID string) int {
	sess, err := s.roomService.getRoom(roomID)
	s.Require().NoError(err)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.turnSerial
}

func (s *RoomServiceTestSuite) TestRevealHintIsMonotonic() {
	roomID, _, turnStart := s.startTurn(2)

	one, err := s.roomService.RevealHint(s.ctx, &RevealHintInput{
		RoomID:     roomID,
		TurnSerial: turnStart.TurnSerial,
		Stage:      HintStageOne,
	})
	s.Require().NoError(err)

	two, err := s.roomService.RevealHint(s.ctx, &RevealHintInput{
		RoomID:     roomID,
		TurnSerial: turnStart.TurnSerial,
		Stage:      HintStageTwo,
	})
	s.Require().NoError(err)

	s.GreaterOrEqual(countRevealed(two.Hint), countRevealed(one.Hint))
	s.Greater(countRevealed(one.Hint), countRevealed(turnStart.BlankHint))
}

func countRevealed(hint string) int {
	n := 0
	for _, r := range hint {
		if r != '_' && r != ' ' {
			n++
		}
	}
	return n
}

func (s *RoomServiceTestSuite) TestRevealHintStaleSerial() {
	roomID, _, turnStart := s.startTurn(2)

	_, err := s.roomService.TurnTimeout(s.ctx, &TurnTimeoutInput{
		RoomID:     roomID,
		TurnSerial: turnStart.TurnSerial,
	})
	s.Require().NoError(err)

	_, err = s.roomService.RevealHint(s.ctx, &RevealHintInput{
		RoomID:     roomID,
		TurnSerial: turnStart.TurnSerial,
		Stage:      HintStageOne,
	})
	s.Require().ErrorIs(err, ErrStaleTimer)
}

func (s *RoomServiceTestSuite) TestTimeRemaining() {
	roomID, _, _ := s.startTurn(2)

	out, err := s.roomService.TimeRemaining(s.ctx, &TimeRemainingInput{RoomID: roomID})
	s.Require().NoError(err)
	s.Equal(80, out.Seconds)

	s.now = s.now.Add(30 * time.Second)
	out, err = s.roomService.TimeRemaining(s.ctx, &TimeRemainingInput{RoomID: roomID})
	s.Require().NoError(err)
	s.Equal(50, out.Seconds)

	s.now = s.now.Add(100 * time.Second)
	out, err = s.roomService.TimeRemaining(s.ctx, &TimeRemainingInput{RoomID: roomID})
	s.Require().NoError(err)
	s.Equal(0, out.Seconds)
}

func (s *RoomServiceTestSuite) TestTimeRemainingZeroOutsideDrawing() {
	roomID := s.createRoom(2)

	out, err := s.roomService.TimeRemaining(s.ctx, &TimeRemainingInput{RoomID: roomID})
	s.Require().NoError(err)
	s.Zero(out.Seconds)
}

func (s *RoomServiceTestSuite) TestAddStrokeDrawerOnly() {
	roomID, _, turnStart := s.startTurn(2)

	guesser := "conn-0"
	if turnStart.DrawerConnID == "conn-0" {
		guesser = "conn-1"
	}

	_, err := s.roomService.AddStroke(s.ctx, &AddStrokeInput{
		RoomID:  roomID,
		ConnID:  guesser,
		Payload: []byte(`{"x":1}`),
	})
	s.Require().ErrorIs(err, ErrNotDrawer)

	first, err := s.roomService.AddStroke(s.ctx, &AddStrokeInput{
		RoomID:  roomID,
		ConnID:  turnStart.DrawerConnID,
		Payload: []byte(`{"x":1}`),
	})
	s.Require().NoError(err)
	s.Equal(1, first.Seq)

	second, err := s.roomService.AddStroke(s.ctx, &AddStrokeInput{
		RoomID:  roomID,
		ConnID:  turnStart.DrawerConnID,
		Payload: []byte(`{"x":2}`),
	})
	s.Require().NoError(err)
	s.Equal(2, second.Seq)

	snap, err := s.roomService.Snapshot(s.ctx, &SnapshotInput{RoomID: roomID, ConnID: guesser})
	s.Require().NoError(err)
	s.Len(snap.Strokes, 2)
}

func (s *RoomServiceTestSuite) TestSnapshotWithholdsWordFromGuessers() {
	roomID, _, turnStart := s.startTurn(2)

	guesser := "conn-0"
	if turnStart.DrawerConnID == "conn-0" {
		guesser = "conn-1"
	}

	guesserView, err := s.roomService.Snapshot(s.ctx, &SnapshotInput{RoomID: roomID, ConnID: guesser})
	s.Require().NoError(err)
	s.Empty(guesserView.Word)
	s.Equal(turnStart.DrawerConnID, guesserView.DrawerConnID)

	drawerView, err := s.roomService.Snapshot(s.ctx, &SnapshotInput{RoomID: roomID, ConnID: turnStart.DrawerConnID})
	s.Require().NoError(err)
	s.Equal(turnStart.Word, drawerView.Word)
}

func (s *RoomServiceTestSuite) TestCustomWordsUsedWhenEnough() {
	roomID := s.createRoom(2, func(in *CreateRoomInput) {
		in.CustomWords = []string{"alpha", "bravo", "charlie", "delta"}
	})

	started, err := s.roomService.StartGame(s.ctx, &StartGameInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)

	for _, w := range started.Choosing.Choices {
		s.Contains([]string{"alpha", "bravo", "charlie", "delta"}, w)
	}
}

func (s *RoomServiceTestSuite) TestShortCustomListFallsBackToPack() {
	roomID := s.createRoom(2, func(in *CreateRoomInput) {
		in.CustomWords = []string{"alpha", "alpha", "ALPHA"}
	})

	started, err := s.roomService.StartGame(s.ctx, &StartGameInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)

	s.ElementsMatch(s.testWords, started.Choosing.Choices)
}
