package jobs

import (
	"context"
	"time"

	"mentorhub/internal/services"

	"go.uber.org/zap"
)

// DeviceRetention is how long an idle device row survives before the daily
// cleanup drops it.
const DeviceRetention = 90 * 24 * time.Hour

// DeviceCleaner drops device registrations idle past the retention window.
type DeviceCleaner struct {
	deviceSvc services.DeviceService
	logger    *zap.Logger
}

func NewDeviceCleaner(deviceSvc services.DeviceService, logger *zap.Logger) *DeviceCleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeviceCleaner{deviceSvc: deviceSvc, logger: logger}
}

func (d *DeviceCleaner) Run(ctx context.Context) error {
	removed, err := d.deviceSvc.CleanupInactive(ctx, DeviceRetention)
	if err != nil {
		d.logger.Error("device cleanup failed", zap.Error(err))
		return err
	}
	d.logger.Info("device cleanup completed", zap.Int64("removed", removed))
	return nil
}
