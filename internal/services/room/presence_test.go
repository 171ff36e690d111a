package room

func (s *RoomServiceTestSuite) TestReconnectRestoresSeat() {
	roomID, _, turnStart := s.startTurn(3)

	guesser := s.firstNonDrawer(roomID, turnStart.DrawerConnID)

	// earn a score and guessed-status before dropping
	out, err := s.roomService.SubmitGuess(s.ctx, &SubmitGuessInput{
		RoomID: roomID,
		ConnID: guesser,
		Guess:  turnStart.Word,
	})
	s.Require().NoError(err)
	scoreBefore := out.Result.GuesserPoints

	token := s.tokenFor(roomID, guesser)
	nameBefore := s.nameFor(roomID, guesser)

	dropped, err := s.roomService.Disconnect(s.ctx, &DisconnectInput{RoomID: roomID, ConnID: guesser})
	s.Require().NoError(err)
	s.True(dropped.Held)
	s.Equal(token, dropped.SessionToken)

	restored, err := s.roomService.Reconnect(s.ctx, &ReconnectInput{
		RoomID:       roomID,
		ConnID:       "conn-new",
		SessionToken: token,
	})
	s.Require().NoError(err)

	s.Equal(nameBefore, restored.Name)
	s.Equal(scoreBefore, restored.Score)
	s.False(restored.IsDrawer)
	s.Equal(PhaseDrawing, restored.Phase)

	// the new identity holds the seat, the old one resolves to nothing
	sess, err := s.roomService.getRoom(roomID)
	s.Require().NoError(err)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	p, ok := sess.playerByConnLocked("conn-new")
	s.Require().True(ok)
	s.Equal(scoreBefore, p.Score)
	s.True(sess.guessed[p.SeatID], "guessed status must survive the reconnect")

	_, ok = sess.playerByConnLocked(guesser)
	s.False(ok)

	occurrences := 0
	for _, seat := range sess.turnOrder {
		if seat == p.SeatID {
			occurrences++
		}
	}
	s.Equal(1, occurrences, "seat must appear in the turn order exactly once")
}

func (s *RoomServiceTestSuite) TestReconnectRestoresOwnership() {
	roomID := s.createRoom(3)

	dropped, err := s.roomService.Disconnect(s.ctx, &DisconnectInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)
	s.True(dropped.Held)

	// ownership moved to a live player in the meantime
	sess, err := s.roomService.getRoom(roomID)
	s.Require().NoError(err)
	sess.mu.Lock()
	s.NotEmpty(sess.ownerSeat)
	sess.mu.Unlock()

	restored, err := s.roomService.Reconnect(s.ctx, &ReconnectInput{
		RoomID:       roomID,
		ConnID:       "conn-0b",
		SessionToken: "tok-0",
	})
	s.Require().NoError(err)
	s.True(restored.IsOwner)

	sess.mu.Lock()
	owner := sess.players[sess.ownerSeat]
	sess.mu.Unlock()
	s.Equal("conn-0b", owner.ConnID)
}

func (s *RoomServiceTestSuite) TestReconnectRestoresDrawer() {
	roomID, _, turnStart := s.startTurn(3)

	// drawer drops mid-turn, which ends the turn but keeps the seat held
	dropped, err := s.roomService.Disconnect(s.ctx, &DisconnectInput{RoomID: roomID, ConnID: turnStart.DrawerConnID})
	s.Require().NoError(err)
	s.True(dropped.Held)
	s.Require().NotNil(dropped.TurnEnd)
	s.Equal(TurnEndDrawerLeft, dropped.TurnEnd.Reason)

	restored, err := s.roomService.Reconnect(s.ctx, &ReconnectInput{
		RoomID:       roomID,
		ConnID:       "conn-back",
		SessionToken: dropped.SessionToken,
	})
	s.Require().NoError(err)

	// the turn has not advanced yet, so the seat is still the drawer's
	s.True(restored.IsDrawer)
}

func (s *RoomServiceTestSuite) TestReconnectUnknownToken() {
	roomID := s.createRoom(2)

	_, err := s.roomService.Reconnect(s.ctx, &ReconnectInput{
		RoomID:       roomID,
		ConnID:       "conn-x",
		SessionToken: "never-issued",
	})
	s.Require().ErrorIs(err, ErrSeatNotHeld)
}

func (s *RoomServiceTestSuite) TestDisconnectWithoutTokenIsNotHeld() {
	roomID := s.createRoom(2)

	_, err := s.roomService.JoinRoom(s.ctx, &JoinRoomInput{
		RoomID: roomID,
		ConnID: "conn-guest",
		Name:   "guest",
		// no session token: ephemeral
	})
	s.Require().NoError(err)

	dropped, err := s.roomService.Disconnect(s.ctx, &DisconnectInput{RoomID: roomID, ConnID: "conn-guest"})
	s.Require().NoError(err)
	s.False(dropped.Held)
	s.Empty(dropped.SessionToken)
}

func (s *RoomServiceTestSuite) TestDrawerDisconnectDuringChoosingSkipsTurn() {
	roomID := s.createRoom(3)

	started, err := s.roomService.StartGame(s.ctx, &StartGameInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)

	dropped, err := s.roomService.Disconnect(s.ctx, &DisconnectInput{
		RoomID: roomID,
		ConnID: started.Choosing.DrawerConnID,
	})
	s.Require().NoError(err)

	s.Require().NotNil(dropped.NextTurn)
	s.Require().NotNil(dropped.NextTurn.Choosing)
	s.NotEqual(started.Choosing.DrawerConnID, dropped.NextTurn.Choosing.DrawerConnID)
}

func (s *RoomServiceTestSuite) TestUnderPopulatedRoomForcesWaiting() {
	roomID, _, _ := s.startTurn(2)

	dropped, err := s.roomService.Disconnect(s.ctx, &DisconnectInput{RoomID: roomID, ConnID: "conn-1"})
	s.Require().NoError(err)
	s.True(dropped.ForcedWaiting)

	snap, err := s.roomService.Snapshot(s.ctx, &SnapshotInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)
	s.Equal(PhaseWaiting, snap.Phase)
	s.Empty(snap.Hint)
	s.Zero(snap.TimeRemaining)
}

func (s *RoomServiceTestSuite) TestVacantSeatSkippedOnAdvance() {
	roomID, _, turnStart := s.startTurn(4)

	// a non-drawer leaves for good, without a held seat in the turn order
	leaver := s.firstNonDrawer(roomID, turnStart.DrawerConnID)
	_, err := s.roomService.Disconnect(s.ctx, &DisconnectInput{RoomID: roomID, ConnID: leaver})
	s.Require().NoError(err)

	ended, err := s.roomService.TurnTimeout(s.ctx, &TurnTimeoutInput{
		RoomID:     roomID,
		TurnSerial: s.currentSerial(roomID),
	})
	s.Require().NoError(err)

	adv, err := s.roomService.AdvanceTurn(s.ctx, &AdvanceTurnInput{
		RoomID:     roomID,
		TurnSerial: ended.TurnEnd.TurnSerial,
	})
	s.Require().NoError(err)
	s.Require().NotNil(adv.Choosing)
	s.NotEqual(leaver, adv.Choosing.DrawerConnID)
}

func (s *RoomServiceTestSuite) TestExpireSeatAndRoomTeardown() {
	roomID := s.createRoom(1)

	dropped, err := s.roomService.Disconnect(s.ctx, &DisconnectInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)
	s.True(dropped.Held)
	s.False(dropped.RoomEmpty, "held seat keeps the room alive")

	expired, err := s.roomService.ExpireSeat(s.ctx, &ExpireSeatInput{
		RoomID:       roomID,
		SessionToken: dropped.SessionToken,
	})
	s.Require().NoError(err)
	s.True(expired.RoomEmpty)

	_, err = s.roomService.Snapshot(s.ctx, &SnapshotInput{RoomID: roomID})
	s.Require().ErrorIs(err, ErrRoomNotFound)
}

func (s *RoomServiceTestSuite) TestExpireSeatAfterReconnectIsStale() {
	roomID := s.createRoom(2)

	dropped, err := s.roomService.Disconnect(s.ctx, &DisconnectInput{RoomID: roomID, ConnID: "conn-0"})
	s.Require().NoError(err)

	_, err = s.roomService.Reconnect(s.ctx, &ReconnectInput{
		RoomID:       roomID,
		ConnID:       "conn-0b",
		SessionToken: dropped.SessionToken,
	})
	s.Require().NoError(err)

	// the grace timer fires after the player already came back
	_, err = s.roomService.ExpireSeat(s.ctx, &ExpireSeatInput{
		RoomID:       roomID,
		SessionToken: dropped.SessionToken,
	})
	s.Require().ErrorIs(err, ErrSeatNotHeld)
}

func (s *RoomServiceTestSuite) tokenFor(roomID, connID string) string {
	sess, err := s.roomService.getRoom(roomID)
	s.Require().NoError(err)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	p, ok := sess.playerByConnLocked(connID)
	s.Require().True(ok)
	return p.SessionToken
}

func (s *RoomServiceTestSuite) nameFor(roomID, connID string) string {
	sess, err := s.roomService.getRoom(roomID)
	s.Require().NoError(err)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	p, ok := sess.playerByConnLocked(connID)
	s.Require().True(ok)
	return p.Name
}
