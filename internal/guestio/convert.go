package guestio

import (
	"fmt"
	"strconv"

	"github.com/kalepail/zkp-pong/pkg/models"
)

// ToValidateInput reduces a CompactLog to the guest's narrow contract:
// game_id and the raw event stream, with seeds and commitments stripped.
// The host is responsible for having already checked those separately;
// validator.ValidateLog checks them itself and does not call this.
func ToValidateInput(log models.CompactLog) (models.ValidateLogInput, error) {
	events := make([]int64, len(log.Events))
	for i, s := range log.Events {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return models.ValidateLogInput{}, fmt.Errorf("guestio: event %d is not a valid integer: %q", i, s)
		}
		events[i] = v
	}
	return models.ValidateLogInput{GameID: log.GameID, Events: events}, nil
}
