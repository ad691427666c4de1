package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/m2m-server/internal/model"
)

var _ model.KeyValue = (*DeviceRecordRepository)(nil)

// DeviceRecordRepository stores device records keyed by (device_id, key).
type DeviceRecordRepository struct {
	db       *Connection
	deviceID string
}

func NewDeviceRecordRepository(db *Connection, deviceID string) *DeviceRecordRepository {
	return &DeviceRecordRepository{
		db:       db,
		deviceID: deviceID,
	}
}

func (r *DeviceRecordRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	query := `SELECT value FROM device_records WHERE device_id = $1 AND key = $2`

	err := r.db.QueryRow(ctx, query, r.deviceID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get device record: %w", err)
	}

	return value, true, nil
}

func (r *DeviceRecordRepository) Set(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO device_records (device_id, key, value, updated_at)
			  VALUES ($1, $2, $3, NOW())
			  ON CONFLICT (device_id, key) DO UPDATE
			  SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := r.db.Exec(ctx, query, r.deviceID, key, value); err != nil {
		return fmt.Errorf("failed to set device record: %w", err)
	}

	return nil
}

func (r *DeviceRecordRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM device_records WHERE device_id = $1 AND key = $2`

	if _, err := r.db.Exec(ctx, query, r.deviceID, key); err != nil {
		return fmt.Errorf("failed to delete device record: %w", err)
	}

	return nil
}

func (r *DeviceRecordRepository) Keys(ctx context.Context) ([]string, error) {
	query := `SELECT key FROM device_records WHERE device_id = $1 ORDER BY key`

	rows, err := r.db.Query(ctx, query, r.deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device record keys: %w", err)
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan device record keys: %w", err)
	}

	return keys, nil
}
