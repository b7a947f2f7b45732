package producer

import (
	"encoding/json"
	"log"
	"strconv"
)

func (m *Match) broadcastEvent(eventIndex int, loggedL, loggedR int64, leftScore, rightScore uint32) {
	payload := EventPayload{
		GameID:     m.GameID,
		EventIndex: eventIndex,
		LeftY:      strconv.FormatInt(loggedL, 10),
		RightY:     strconv.FormatInt(loggedR, 10),
		LeftScore:  leftScore,
		RightScore: rightScore,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[producer] failed to marshal event payload: %v", err)
		return
	}
	m.Broadcast.Broadcast(b)
}
