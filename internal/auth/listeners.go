package auth

import "github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/metrics"

// SessionGauge keeps the active sessions gauge in step with sign-ins and sign-outs.
func SessionGauge(m *metrics.MetricsManager) Listener {
	return func(e Event) {
		switch e.Kind {
		case EventSignedIn:
			m.SessionStarted()
		case EventSignedOut:
			m.SessionEnded()
		}
	}
}
