package jobs

import (
	"context"
	"time"

	"courtfinder/services"
	"courtfinder/services/logger"

	"github.com/robfig/cron/v3"
)

// Reconciler sửa lại các bộ đếm vote lệch so với bảng vote
type Reconciler interface {
	Reconcile(ctx context.Context) (services.ReconcileReport, error)
}

const reconcileTimeout = 5 * time.Minute

// ReconcileJob trả về hàm chạy một lần đối soát, dùng cho cron
func ReconcileJob(r Reconciler, log logger.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()

		start := time.Now()
		report, err := r.Reconcile(ctx)
		if err != nil {
			log.Error("Lỗi khi đối soát bộ đếm vote: %v", err)
			return
		}
		log.Info("Đối soát bộ đếm vote xong sau %v: %d review, %d user được sửa",
			time.Since(start), report.ReviewsCorrected, report.UsersCorrected)
	}
}

// InitCronJobs đăng ký các cron job và khởi động scheduler
func InitCronJobs(c *cron.Cron, schedule string, r Reconciler, log logger.Logger) error {
	if _, err := c.AddFunc(schedule, ReconcileJob(r, log)); err != nil {
		return err
	}

	c.Start()
	log.Info("Cron jobs initialized successfully")
	return nil
}
