package tool

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/asset-tracking/internal/core/events"
)

type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

// HandleCalibrationRecorded copies the new calibration date onto every tool
// carrying the calibrated serial number.
func (h *EventHandler) HandleCalibrationRecorded(ctx context.Context, event events.Event) error {
	calEvent, ok := event.(*events.CalibrationRecordedEvent)
	if !ok {
		h.logger.Error("invalid event type for calibration recorded handler", "event_type", event.EventType())
		return fmt.Errorf("expected CalibrationRecordedEvent, got %T", event)
	}

	h.logger.Info("handling calibration recorded event",
		"calibration_id", calEvent.CalibrationID,
		"serial_no", calEvent.SerialNo,
		"event_id", calEvent.EventID())

	if _, err := h.service.SyncCalibration(ctx, calEvent.SerialNo, calEvent.CalibrationDate); err != nil {
		h.logger.Error("failed to sync tool calibration",
			"error", err,
			"calibration_id", calEvent.CalibrationID,
			"serial_no", calEvent.SerialNo,
			"event_id", calEvent.EventID())
		return err
	}
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeCalibrationRecorded, h.HandleCalibrationRecorded)

	h.logger.Info("tool event handlers registered",
		"handlers", []string{events.EventTypeCalibrationRecorded})
}
