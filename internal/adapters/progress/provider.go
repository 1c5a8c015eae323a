package progress

import (
	"github.com/trebuchet-org/simple-storage/internal/domain/config"
	"github.com/trebuchet-org/simple-storage/internal/usecase"
)

// ProvideSink picks the spinner for humans and stays quiet for machine output
func ProvideSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.JSON {
		return NewNopSink()
	}
	return NewSpinnerSink()
}
