package relay

import "github.com/kalepail/zkp-pong/pkg/models"

// Role is a peer's assigned paddle side within a session.
type Role string

const (
	RoleLeft  Role = "left"
	RoleRight Role = "right"
)

// Message is the line-delimited JSON envelope every relay message uses
// (spec.md §4.7/§6). Data fields are populated according to Type; an
// encoder should omit the ones that don't apply.
type Message struct {
	Type string `json:"type"`

	Role       Role   `json:"role,omitempty"`
	GameID     uint32 `json:"game_id,omitempty"`
	EventIndex int    `json:"eventIndex,omitempty"`
	PaddleY    string `json:"paddleY,omitempty"`
	Commitment string `json:"commitment,omitempty"`

	Seed string `json:"seed,omitempty"`

	Log *models.CompactLog `json:"log,omitempty"`

	Reason string `json:"reason,omitempty"`
}

// Message kinds, per spec.md §4.7's required set.
const (
	MsgGameStart            = "game_start"
	MsgOpponentConnected    = "opponent_connected"
	MsgPlayerReady          = "player_ready"
	MsgGameReady            = "game_ready"
	MsgPaddlePosition       = "paddle_position"
	MsgOpponentPaddle       = "opponent_paddle"
	MsgPlayerLog            = "player_log"
	MsgGameEnd              = "game_end"
	MsgOpponentDisconnected = "opponent_disconnected"
	MsgDesyncWarning        = "desync_warning"
)
