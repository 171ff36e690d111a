package room

import (
	"context"

	"github.com/scrawlgame/scrawl/internal/models"
)

// Disconnect removes a connection, holding the seat when the player has a
// session token. The caller owns the grace timer for a held seat and the
// cancellation of room timers when ForcedWaiting is reported.
func (s *service) Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()

	p, ok := sess.playerByConnLocked(input.ConnID)
	if !ok {
		sess.mu.Unlock()
		return nil, ErrPlayerNotFound
	}

	out := &DisconnectOutput{Name: p.Name}

	// Snapshot the seat before the roster entry disappears; role identity
	// is about to be detached from the connection.
	if p.SessionToken != "" {
		sess.held[p.SessionToken] = &models.HeldSeat{
			SeatID:       p.SeatID,
			Name:         p.Name,
			Score:        p.Score,
			Avatar:       p.Avatar,
			SessionToken: p.SessionToken,
			WasOwner:     sess.ownerSeat == p.SeatID,
			WasDrawer:    sess.drawerSeat == p.SeatID,
			HadGuessed:   sess.guessed[p.SeatID],
			TurnSerial:   sess.turnSerial,
			HeldAt:       s.clock.Now(),
		}
		out.Held = true
		out.SessionToken = p.SessionToken
	}

	wasDrawer := sess.drawerSeat == p.SeatID
	wasOwner := sess.ownerSeat == p.SeatID

	delete(sess.players, p.SeatID)
	delete(sess.connIndex, p.ConnID)
	delete(sess.guessed, p.SeatID)
	sess.removeSeatFromOrderLocked(p.SeatID)

	// Ownership always points at a current player; the token keeps the
	// original owner's claim alive across the grace period.
	if wasOwner {
		sess.ownerToken = p.SessionToken
		sess.ownerSeat = ""
		if len(sess.seatOrder) > 0 {
			sess.ownerSeat = sess.seatOrder[0]
		}
	}

	switch {
	case len(sess.players) < MinPlayersToStart && sess.phase != PhaseWaiting:
		sess.forceWaitingLocked()
		out.ForcedWaiting = true

	case wasDrawer && sess.phase == PhaseDrawing && !sess.turnSettled:
		out.TurnEnd = sess.endTurnLocked(TurnEndDrawerLeft)

	case sess.phase == PhaseDrawing && !sess.turnSettled && sess.allGuessedLocked():
		// the departed player was the last one still guessing
		out.TurnEnd = sess.endTurnLocked(TurnEndAllGuessed)

	case wasDrawer && sess.phase == PhaseChoosing:
		// no word was committed yet, move straight to the next drawer
		next, advErr := s.advanceLocked(ctx, sess)
		if advErr != nil {
			s.logger.Error().Err(advErr).Str("room_id", sess.id).Msg("failed to skip departed drawer")
		} else {
			out.NextTurn = next
		}
	}

	out.Roster = sess.rosterLocked()
	sess.mu.Unlock()

	s.logger.Info().Str("room_id", sess.id).Str("player", out.Name).Bool("held", out.Held).Msg("player disconnected")

	if s.removeRoomIfEmpty(sess) {
		out.RoomEmpty = true
	}

	return out, nil
}

// Reconnect re-binds a held seat to a new connection identity. The whole
// rewrite happens under the session lock, so no other operation can observe
// a half-moved seat.
func (s *service) Reconnect(ctx context.Context, input *ReconnectInput) (*ReconnectOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if input.SessionToken == "" {
		return nil, ErrSeatNotHeld
	}

	snap, ok := sess.held[input.SessionToken]
	if !ok {
		return nil, ErrSeatNotHeld
	}
	delete(sess.held, input.SessionToken)

	// Defensive cleanup: a stale roster entry still carrying this token
	// means the old connection was never reported dead. Drop it; the seat
	// is re-inserted from the snapshot below.
	for seat, stale := range sess.players {
		if stale.SessionToken == input.SessionToken {
			delete(sess.connIndex, stale.ConnID)
			delete(sess.players, seat)
			sess.removeSeatFromOrderLocked(seat)
		}
	}

	p := &models.Player{
		SeatID:       snap.SeatID,
		ConnID:       input.ConnID,
		Name:         snap.Name,
		Score:        snap.Score,
		Avatar:       snap.Avatar,
		SessionToken: snap.SessionToken,
	}
	sess.addPlayerLocked(p)

	p.IsDrawing = sess.drawerSeat == p.SeatID

	restoredOwner := false
	if snap.WasOwner || (sess.ownerToken != "" && sess.ownerToken == input.SessionToken) {
		sess.ownerSeat = p.SeatID
		restoredOwner = true
	}

	// Guessed status only carries over into the same turn it was earned in
	if snap.HadGuessed && sess.phase == PhaseDrawing && snap.TurnSerial == sess.turnSerial {
		sess.guessed[p.SeatID] = true
	}

	// A seat that came back mid-game draws again this round
	if sess.phase == PhaseChoosing || sess.phase == PhaseDrawing {
		inOrder := false
		for _, seat := range sess.turnOrder {
			if seat == p.SeatID {
				inOrder = true
				break
			}
		}
		if !inOrder {
			sess.turnOrder = append(sess.turnOrder, p.SeatID)
		}
	}

	s.logger.Info().Str("room_id", sess.id).Str("player", p.Name).Msg("player reconnected")

	return &ReconnectOutput{
		Name:     p.Name,
		Score:    p.Score,
		Avatar:   p.Avatar,
		IsDrawer: p.IsDrawing,
		IsOwner:  restoredOwner,
		Roster:   sess.rosterLocked(),
		Phase:    sess.phase,
	}, nil
}

// ExpireSeat evicts a held seat whose grace period ran out
func (s *service) ExpireSeat(ctx context.Context, input *ExpireSeatInput) (*ExpireSeatOutput, error) {
	sess, err := s.getRoom(input.RoomID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	_, ok := sess.held[input.SessionToken]
	delete(sess.held, input.SessionToken)
	sess.mu.Unlock()

	if !ok {
		return nil, ErrSeatNotHeld
	}

	out := &ExpireSeatOutput{}
	if s.removeRoomIfEmpty(sess) {
		out.RoomEmpty = true
	}

	return out, nil
}
