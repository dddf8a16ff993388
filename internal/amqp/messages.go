package amqp

import (
	"encoding/json"
	"time"
)

// SaleRecordedMessage announces one persisted sale. It carries only the
// record id; the worker fetches the full record from the store.
type SaleRecordedMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSaleRecordedMessage(id int64) *SaleRecordedMessage {
	return &SaleRecordedMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *SaleRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SaleRecordedMessageFromJSON(data []byte) (*SaleRecordedMessage, error) {
	var msg SaleRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
