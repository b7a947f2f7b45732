package models

// CompactLog is the on-disk JSON representation of a completed match
// (spec §6). Keys may arrive in any order; encoders should emit them in
// the order below for readability.
type CompactLog struct {
	V               int      `json:"v"`
	GameID          uint32   `json:"game_id"`
	Events          []string `json:"events"`       // decimal Q16.16, [L0,R0,L1,R1,...]
	Commitments     []string `json:"commitments"`   // 64-char lowercase hex, same length as Events
	PlayerLeftSeed  string   `json:"player_left_seed"`
	PlayerRightSeed string   `json:"player_right_seed"`
}

// ValidateLogInput is the guest-bound reduction of a CompactLog: the
// event stream as signed 64-bit integers plus the game ID. Seeds and
// hex commitments are not part of the guest contract — the guest only
// ever sees the integers it must replay.
type ValidateLogInput struct {
	GameID uint32  `json:"game_id"`
	Events []int64 `json:"events"`
}

// ValidateLogOutput is the guest's public output (spec §3).
type ValidateLogOutput struct {
	Fair          bool    `json:"fair"`
	Reason        *string `json:"reason,omitempty"`
	LeftScore     uint32  `json:"left_score"`
	RightScore    uint32  `json:"right_score"`
	EventsLen     uint32  `json:"events_len"`
	LogHashSHA256 [32]byte `json:"log_hash_sha256"`
}
