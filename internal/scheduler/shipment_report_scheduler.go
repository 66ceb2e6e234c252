package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/giftbox-backend/internal/app/service"
	"github.com/ikkim/giftbox-backend/internal/storage"
	"github.com/ikkim/giftbox-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const reportTimeout = 2 * time.Minute

// ExportArchiver stores report snapshots; *storage.S3Storage implements it
type ExportArchiver interface {
	ArchiveExport(ctx context.Context, data []byte, at time.Time) (*storage.ArchivedObject, error)
}

// ShipmentReportScheduler logs the daily request summary so pending mail
// requests get shipped, and archives an xlsx snapshot when storage is set.
type ShipmentReportScheduler struct {
	cron         *cron.Cron
	spec         string
	adminService service.AdminService
	archiver     ExportArchiver
}

// NewShipmentReportScheduler builds the scheduler. archiver may be nil.
func NewShipmentReportScheduler(spec string, adminService service.AdminService, archiver ExportArchiver) *ShipmentReportScheduler {
	return &ShipmentReportScheduler{
		cron:         cron.New(),
		spec:         spec,
		adminService: adminService,
		archiver:     archiver,
	}
}

// Start registers the report on the cron spec and starts the cron loop
func (s *ShipmentReportScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()
		s.RunReport(ctx)
	})
	if err != nil {
		logger.Error("Failed to add cron job for shipment report", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Shipment report scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Stop waits for a running report to finish
func (s *ShipmentReportScheduler) Stop() {
	logger.Info("Stopping shipment report scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Shipment report scheduler stopped")
}

// RunReport produces one report. Failures are logged; the next run retries.
func (s *ShipmentReportScheduler) RunReport(ctx context.Context) {
	logger.Info("Starting scheduled shipment report")

	stats, err := s.adminService.Summary(ctx)
	if err != nil {
		logger.Error("Failed to build shipment report", err)
		return
	}

	fields := map[string]interface{}{
		"total":        stats.Total,
		"pending":      stats.Pending,
		"shipped":      stats.Shipped,
		"pending_mail": stats.PendingMail,
		"standard":     stats.Standard,
		"halal":        stats.Halal,
	}
	if stats.PendingMail > 0 {
		logger.Warn("Mail requests waiting for a tracking number", fields)
	} else {
		logger.Info("Shipment report", fields)
	}

	if s.archiver == nil {
		return
	}

	data, err := s.adminService.ExportRequests(ctx, "")
	if err != nil {
		logger.Error("Failed to export requests for archive", err)
		return
	}

	obj, err := s.archiver.ArchiveExport(ctx, data, time.Now())
	if err != nil {
		logger.Error("Failed to archive shipment report", err)
		return
	}

	logger.Info("Shipment report archived", map[string]interface{}{
		"key": obj.Key,
		"url": obj.URL,
	})
}
