package health

import (
	"context"
	"time"
)

// Schedule runs RunHealthCheck every interval until ctx is cancelled.
// The first run happens one interval after start.
func (m *Monitor) Schedule(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		m.logger.Warn("health checks disabled", "interval", interval)
		return
	}

	m.logger.Info("scheduling health checks", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("health check scheduler stopped")
			return
		case <-ticker.C:
			_, _ = m.RunHealthCheck(ctx)
		}
	}
}
