package logging

import (
	"context"
	"time"

	"github.com/bloodbridge/bloodbridge-backend/internal/models"
	"gorm.io/gorm"
)

// PurgeSystemLogs deletes system_logs older than retention and returns how
// many rows went away.
func PurgeSystemLogs(ctx context.Context, db *gorm.DB, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
