package requestqueue

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config controls queue capacity and request spacing.
// Zero values are replaced with the defaults below when the queue starts.
type Config struct {
	// QueueSize bounds how many operations may wait for the worker.
	QueueSize int `envconfig:"QUEUE_SIZE" default:"64"`

	// EnqueueTimeout is how long Submit blocks on a full queue before
	// giving up with a QueueFullError.
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT" default:"100ms"`

	// MinInterval is the minimum spacing between the starts of two
	// consecutive operations. This is a throttle, not a pool: exactly
	// one operation is in flight at a time.
	MinInterval time.Duration `envconfig:"MIN_INTERVAL" default:"100ms"`
}

// LoadConfig reads RQ_* environment variables over the struct defaults.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("rq", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
