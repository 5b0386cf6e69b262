package amqp

import (
	"encoding/json"
	"time"
)

// RefreshMessage asks the dashboard worker to rebuild the dashboard
// grid. It carries only the id of the import run that triggered it; the
// worker reads the transaction set from the sink itself.
type RefreshMessage struct {
	RunID     string    `json:"run_id"`
	Imported  int       `json:"imported"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRefreshMessage(runID string, imported int) *RefreshMessage {
	return &RefreshMessage{
		RunID:     runID,
		Imported:  imported,
		Timestamp: time.Now(),
	}
}

func (m *RefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RefreshMessageFromJSON(data []byte) (*RefreshMessage, error) {
	var msg RefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
