package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReportGeneratedMessage announces a freshly generated weekly report.
// It carries only identifiers; consumers fetch the full report from the
// database so a stale message can never export stale numbers.
type ReportGeneratedMessage struct {
	MessageID string    `json:"messageId"`
	ReportID  int64     `json:"reportId"`
	WeekStart string    `json:"weekStart"` // 2006-01-02
	Timestamp time.Time `json:"timestamp"`
}

func NewReportGeneratedMessage(reportID int64, weekStart time.Time) *ReportGeneratedMessage {
	return &ReportGeneratedMessage{
		MessageID: uuid.NewString(),
		ReportID:  reportID,
		WeekStart: weekStart.Format("2006-01-02"),
		Timestamp: time.Now(),
	}
}

func (m *ReportGeneratedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportGeneratedMessageFromJSON(data []byte) (*ReportGeneratedMessage, error) {
	var msg ReportGeneratedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
