package health

import "context"

// HealthPinger is implemented by components that expose a direct liveness
// probe, such as the SQL-backed prompt stores. HealthPing must return nil
// when the component is healthy.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
