package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartStaleIdentityCleaner deletes old secondary identities with interval.
// A fresh custom identity is minted on every login, so rows unseen for the
// retention window are dead weight.
func StartStaleIdentityCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM custom_identities
                     WHERE last_seen < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to clean stale custom identities", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned stale custom identities", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
