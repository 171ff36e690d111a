package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/scrawlgame/scrawl/internal/services/announcer"
	"github.com/scrawlgame/scrawl/internal/services/room"
)

// newUpgrader builds the websocket upgrader; an empty origin list keeps
// the permissive default since rooms are joined by shared link
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
}

// CreateRoomRequest is the JSON body of POST /api/rooms
type CreateRoomRequest struct {
	Name        string   `json:"name" binding:"required"`
	Avatar      string   `json:"avatar"`
	Rounds      int      `json:"rounds"`
	Pack        string   `json:"pack"`
	CustomWords []string `json:"custom_words"`
}

// CreateRoomResponse carries the credentials the creator connects with
type CreateRoomResponse struct {
	RoomID       string `json:"room_id"`
	ConnID       string `json:"conn_id"`
	SessionToken string `json:"session_token"`
}

// RegisterRoutes mounts the room API on the given engine
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/rooms", h.createRoomHandler)
	api.GET("/rooms/:id/ws", h.connectHandler)
}

func (h *Handler) createRoomHandler(ctx *gin.Context) {
	var req CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	connID := uuid.New().String()
	token := uuid.New().String()

	out, err := h.roomService.CreateRoom(ctx.Request.Context(), &room.CreateRoomInput{
		ConnID:       connID,
		Name:         req.Name,
		Avatar:       req.Avatar,
		SessionToken: token,
		Rounds:       req.Rounds,
		Pack:         req.Pack,
		CustomWords:  req.CustomWords,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create room")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}

	ctx.JSON(http.StatusCreated, &CreateRoomResponse{
		RoomID:       out.RoomID,
		ConnID:       connID,
		SessionToken: token,
	})
}

// connectHandler upgrades the connection and binds it to a seat: the
// creator attaches with the conn id from the create response, a returning
// player reconnects with their session token, anyone else joins fresh.
func (h *Handler) connectHandler(ctx *gin.Context) {
	roomID := ctx.Param("id")
	connID := ctx.Query("conn_id")
	token := ctx.Query("token")
	name := ctx.Query("name")
	avatar := ctx.Query("avatar")

	reqCtx := ctx.Request.Context()

	var (
		joined      bool
		reconnected bool
		playerName  string
	)

	switch {
	case connID != "":
		// creator attaching to the seat made by createRoomHandler
		snap, err := h.roomService.Snapshot(reqCtx, &room.SnapshotInput{RoomID: roomID, ConnID: connID})
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		found := false
		for _, entry := range snap.Roster {
			if entry.ConnID == connID {
				found = true
				playerName = entry.Name
			}
		}
		if !found {
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown connection"})
			return
		}

	case token != "":
		connID = uuid.New().String()
		out, err := h.roomService.Reconnect(reqCtx, &room.ReconnectInput{
			RoomID:       roomID,
			ConnID:       connID,
			SessionToken: token,
		})
		if err != nil {
			if errors.Is(err, room.ErrSeatNotHeld) {
				ctx.AbortWithStatusJSON(http.StatusGone, gin.H{"error": "seat no longer held"})
				return
			}
			ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		reconnected = true
		playerName = out.Name

	default:
		if name == "" {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		connID = uuid.New().String()
		token = uuid.New().String()
		_, err := h.roomService.JoinRoom(reqCtx, &room.JoinRoomInput{
			RoomID:       roomID,
			ConnID:       connID,
			Name:         name,
			Avatar:       avatar,
			SessionToken: token,
		})
		if err != nil {
			switch {
			case errors.Is(err, room.ErrRoomNotFound):
				ctx.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "room not found"})
			case errors.Is(err, room.ErrRoomFull):
				ctx.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "room is full"})
			default:
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to join"})
			}
			return
		}
		joined = true
		playerName = name
	}

	socket, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("room_id", roomID).Msg("websocket upgrade failed")
		return
	}

	c := newClient(h, NewConn(socket), roomID, connID, playerName, token)
	h.register(c)

	go c.writePump()

	h.sendRoomState(c)

	if joined || reconnected {
		h.announceArrival(c, reconnected)
	}

	c.readPump()
}

// sendRoomState delivers the full snapshot the client renders from
func (h *Handler) sendRoomState(c *client) {
	snap, err := h.roomService.Snapshot(context.Background(), &room.SnapshotInput{
		RoomID: c.roomID,
		ConnID: c.connID,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("room_id", c.roomID).Msg("failed to snapshot room")
		return
	}

	strokes := make([]json.RawMessage, 0, len(snap.Strokes))
	for _, stroke := range snap.Strokes {
		strokes = append(strokes, stroke.Payload)
	}

	h.sendTo(c.roomID, c.connID, TypeRoomState, &RoomStateData{
		RoomID:        c.roomID,
		ConnID:        c.connID,
		SessionToken:  c.sessionToken,
		Phase:         snap.Phase,
		Round:         snap.Round,
		MaxRounds:     snap.MaxRounds,
		OwnerConnID:   snap.OwnerConnID,
		DrawerConnID:  snap.DrawerConnID,
		Roster:        snap.Roster,
		Hint:          snap.Hint,
		TimeRemaining: snap.TimeRemaining,
		Strokes:       strokes,
		Word:          snap.Word,
	})
}

func (h *Handler) announceArrival(c *client, reconnected bool) {
	line, err := h.announcer.GetJoinMessage(context.Background(), &announcer.GetJoinMessageInput{
		PlayerName:  c.name,
		Reconnected: reconnected,
	})
	message := ""
	if err == nil {
		message = line.Message
	}

	msgType := TypePlayerJoined
	if reconnected {
		msgType = TypePlayerReconnected
	}

	snap, err := h.roomService.Snapshot(context.Background(), &room.SnapshotInput{RoomID: c.roomID})
	var roster []room.RosterEntry
	if err == nil {
		roster = snap.Roster
	}

	h.broadcastExcept(c.roomID, c.connID, msgType, &PlayerEventData{
		ConnID:  c.connID,
		Name:    c.name,
		Message: message,
		Roster:  roster,
	})
}
