package worker

import (
	"context"
)

// DeviceTrackerInterface is the slice of the device service the tracking
// job needs. Declared here to avoid an import cycle with services.
type DeviceTrackerInterface interface {
	Track(ctx context.Context, ip, userAgent string) error
}

// TrackDeviceJob records one API request against the device table. It is
// submitted from the request middleware so the write never blocks a
// response.
type TrackDeviceJob struct {
	Devices   DeviceTrackerInterface
	IP        string
	UserAgent string
}

func (j *TrackDeviceJob) Name() string { return "track_device" }

func (j *TrackDeviceJob) Run(ctx context.Context) error {
	return j.Devices.Track(ctx, j.IP, j.UserAgent)
}
