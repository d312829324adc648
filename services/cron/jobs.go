package cron

import (
	"fmt"
	"time"

	"github.com/practicahub/internship-api/model"
)

// CloseExpiredOffers closes published offers whose application deadline has
// passed. The conditional update follows the same rule as a manual close, so
// an offer racing with a concurrent transition is simply skipped this sweep.
func (m *CronManager) CloseExpiredOffers() {
	jobName := "close_expired_offers"

	res := m.db.Model(&model.Offer{}).
		Where("status = ? AND application_deadline IS NOT NULL AND application_deadline < ?",
			model.OfferStatusPublished, time.Now()).
		Update("status", model.OfferStatusClosed)
	if res.Error != nil {
		m.logJobError(jobName, res.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("closed %d expired offers", res.RowsAffected))
}

// CleanupOldCronLogs removes cron job logs older than 30 days
func (m *CronManager) CleanupOldCronLogs() {
	jobName := "cleanup_cron_logs"

	cutoff := time.Now().AddDate(0, 0, -30)
	res := m.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if res.Error != nil {
		m.logJobError(jobName, res.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("deleted %d old cron logs", res.RowsAffected))
}
