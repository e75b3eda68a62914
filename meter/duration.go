package meter

import "time"

// |||||| INTERFACE ||||||

type Duration interface {
	Metric[time.Duration]
	Start()
	Stop() time.Duration
}

// |||||| BASE ||||||

type duration struct {
	start time.Time
	Metric[time.Duration]
}

func (d *duration) Start() {
	if !d.start.IsZero() {
		panic("duration metric already started. please call Stop() first")
	}
	d.start = time.Now()
}

func (d *duration) Stop() time.Duration {
	if d.start.IsZero() {
		panic("duration metric not started. please call Start() first")
	}
	defer func() {
		d.start = time.Time{}
	}()
	t := time.Since(d.start)
	d.Record(t)
	return t
}

func NewGaugeDuration(p Profile, key string) Duration {
	return &duration{Metric: NewGauge[time.Duration](p, key)}
}

func NewSeriesDuration(p Profile, key string) Duration {
	return &duration{Metric: NewSeries[time.Duration](p, key)}
}
