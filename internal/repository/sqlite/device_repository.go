package sqlite

import (
	"context"
	"database/sql"
	"time"

	"polingo/internal/logger"
	"polingo/internal/models"
	"polingo/internal/repository"
)

type deviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository creates a new DeviceRepository implementation
func NewDeviceRepository(db *sql.DB) repository.DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) Upsert(ctx context.Context, ip, userAgent string) error {
	log := logger.FromContext(ctx).WithPrefix("device_repo")

	_, err := r.db.ExecContext(ctx, `
INSERT INTO devices (ip_address, user_agent, request_count)
VALUES (?, ?, 1)
ON CONFLICT(ip_address, user_agent) DO UPDATE SET
    last_activity = CURRENT_TIMESTAMP,
    request_count = request_count + 1
`, ip, userAgent)
	if err != nil {
		log.Error("failed to upsert device: %v", err)
	}
	return err
}

func (r *deviceRepository) List(ctx context.Context) ([]models.Device, error) {
	log := logger.FromContext(ctx).WithPrefix("device_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, ip_address, user_agent, first_seen, last_activity, request_count
FROM devices
ORDER BY last_activity DESC
`)
	if err != nil {
		log.Error("failed to list devices: %v", err)
		return nil, err
	}
	defer rows.Close()

	var devices []models.Device
	for rows.Next() {
		var d models.Device
		if err := rows.Scan(&d.ID, &d.IPAddress, &d.UserAgent, &d.FirstSeen, &d.LastActivity, &d.RequestCount); err != nil {
			log.Error("failed to scan device: %v", err)
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *deviceRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("device_repo")
	log.Debug("deleting device: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete device: %v", err)
	}
	return err
}

func (r *deviceRepository) DeleteAll(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("device_repo")

	res, err := r.db.ExecContext(ctx, `DELETE FROM devices`)
	if err != nil {
		log.Error("failed to clear devices: %v", err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	log.Debug("cleared %d devices", n)
	return int(n), nil
}

func (r *deviceRepository) PruneInactive(ctx context.Context, before time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("device_repo")

	// last_activity is stored in CURRENT_TIMESTAMP text form, so the
	// cutoff must use the same layout for the comparison to hold.
	cutoff := before.UTC().Format("2006-01-02 15:04:05")
	res, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE last_activity < ?`, cutoff)
	if err != nil {
		log.Error("failed to prune devices: %v", err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		log.Info("pruned %d inactive devices", n)
	}
	return int(n), nil
}
