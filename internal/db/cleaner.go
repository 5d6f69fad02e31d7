package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

const deleteOrphanComments = `
DELETE FROM comments c
 WHERE NOT EXISTS (SELECT 1 FROM posts p WHERE p.id = c.post_id)
`

// StartOrphanCommentCleaner periodically deletes comments whose post has
// been removed. Posts are deleted without cascading, so this is the only
// place their comments go away. It stops when ctx is done. A non-positive
// interval disables the cleaner.
func StartOrphanCommentCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	if interval <= 0 {
		log.Warn("orphan comment cleaner disabled", zap.Duration("interval", interval))
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				res, err := db.ExecContext(ctx, deleteOrphanComments)
				if err != nil {
					log.Error("failed to clean orphaned comments", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned orphaned comments", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
