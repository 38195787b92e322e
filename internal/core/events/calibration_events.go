package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCalibrationRecorded = "calibration.recorded"
)

// CalibrationRecordedEvent is published after a calibration record has been
// stored. Subscribers bring the equipment registry in line with it.
type CalibrationRecordedEvent struct {
	BaseEvent
	CalibrationID   string `json:"calibration_id"`
	SerialNo        string `json:"serial_no"`
	CalibrationDate string `json:"calibration_date"`
	RecordedBy      string `json:"recorded_by"`
}

func NewCalibrationRecordedEvent(calibrationID, serialNo, calibrationDate, recordedBy string) *CalibrationRecordedEvent {
	return &CalibrationRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCalibrationRecorded,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"calibration_id":   calibrationID,
				"serial_no":        serialNo,
				"calibration_date": calibrationDate,
				"recorded_by":      recordedBy,
			},
		},
		CalibrationID:   calibrationID,
		SerialNo:        serialNo,
		CalibrationDate: calibrationDate,
		RecordedBy:      recordedBy,
	}
}
