package services

import (
	"context"
	"time"

	"polingo/internal/errors"
	"polingo/internal/logger"
	"polingo/internal/models"
	"polingo/internal/repository"
)

// activeWindow is how recently a device must have been seen to count as
// active in the admin view.
const activeWindow = 24 * time.Hour

// DeviceService tracks API clients for the admin endpoints
type DeviceService interface {
	// Track records one request from a client, creating the device row on
	// first sight.
	Track(ctx context.Context, ip, userAgent string) error
	List(ctx context.Context) (*models.DevicesResponse, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int, error)
	// PruneInactive removes devices idle for longer than maxAge.
	PruneInactive(ctx context.Context, maxAge time.Duration) (int, error)
}

type deviceService struct {
	devices repository.DeviceRepository
	now     func() time.Time
}

// NewDeviceService creates a new DeviceService
func NewDeviceService(devices repository.DeviceRepository) DeviceService {
	return &deviceService{devices: devices, now: time.Now}
}

func (s *deviceService) Track(ctx context.Context, ip, userAgent string) error {
	log := logger.FromContext(ctx)

	if ip == "" {
		return nil
	}
	if err := s.devices.Upsert(ctx, ip, userAgent); err != nil {
		log.Error("failed to track device: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *deviceService) List(ctx context.Context) (*models.DevicesResponse, error) {
	log := logger.FromContext(ctx)

	devices, err := s.devices.List(ctx)
	if err != nil {
		log.Error("failed to list devices: %v", err)
		return nil, errors.NewInternalError(err)
	}

	cutoff := s.now().Add(-activeWindow)
	active := 0
	for i := range devices {
		devices[i].IsActive = devices[i].LastActivity.After(cutoff)
		if devices[i].IsActive {
			active++
		}
	}

	return &models.DevicesResponse{
		Devices:     devices,
		TotalCount:  len(devices),
		ActiveCount: active,
	}, nil
}

func (s *deviceService) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting device: id=%d", id)

	if err := s.devices.Delete(ctx, id); err != nil {
		log.Error("failed to delete device: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *deviceService) DeleteAll(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	n, err := s.devices.DeleteAll(ctx)
	if err != nil {
		log.Error("failed to delete devices: %v", err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("deleted all devices: count=%d", n)
	return n, nil
}

func (s *deviceService) PruneInactive(ctx context.Context, maxAge time.Duration) (int, error) {
	log := logger.FromContext(ctx)

	before := s.now().Add(-maxAge)
	n, err := s.devices.PruneInactive(ctx, before)
	if err != nil {
		log.Error("failed to prune devices: %v", err)
		return 0, errors.NewInternalError(err)
	}
	if n > 0 {
		log.Info("pruned inactive devices: count=%d", n)
	}
	return n, nil
}
