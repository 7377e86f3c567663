package redis

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// HealthMonitor pings Redis periodically and flips the client's availability flag.
type HealthMonitor struct {
	client        *RedisClient
	interval      time.Duration
	stopChan      chan struct{}
	ctx           context.Context
	cancel        context.CancelFunc
	onStateChange func(available bool)
}

func NewHealthMonitor(client *RedisClient, interval time.Duration, onStateChange func(available bool)) *HealthMonitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &HealthMonitor{
		client:        client,
		interval:      interval,
		stopChan:      make(chan struct{}),
		ctx:           ctx,
		cancel:        cancel,
		onStateChange: onStateChange,
	}
}

// Start blocks until Stop is called; run it in its own goroutine.
func (hm *HealthMonitor) Start() {
	ticker := time.NewTicker(hm.interval)
	defer ticker.Stop()
	defer close(hm.stopChan)

	for {
		select {
		case <-hm.ctx.Done():
			logrus.Info("Redis health monitor stopped")
			return
		case <-ticker.C:
			available := hm.checkHealth()
			previous := hm.client.available.Load()
			hm.client.setAvailable(available)

			if available == previous {
				continue
			}
			if available {
				logrus.Info("Redis is now available")
			} else {
				logrus.Warn("Redis is now unavailable")
			}
			if hm.onStateChange != nil {
				hm.onStateChange(available)
			}
		}
	}
}

func (hm *HealthMonitor) checkHealth() bool {
	ctx, cancel := context.WithTimeout(hm.ctx, 5*time.Second)
	defer cancel()

	return hm.client.Ping(ctx) == nil
}

// Stop gracefully shuts down health monitor
func (hm *HealthMonitor) Stop() {
	hm.cancel()
	<-hm.stopChan
}

// IsAvailable returns current Redis availability
func (hm *HealthMonitor) IsAvailable() bool {
	return hm.client.IsAvailable()
}
