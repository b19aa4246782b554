package telemetry

import (
	"testing"

	"github.com/pthm-cable/wishtree/config"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}
