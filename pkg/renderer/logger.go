package renderer

import (
	"fmt"
	"sync"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() core.Logger {
	return nopLogger{}
}

// progressReporter logs whole-percent progress as rows complete
type progressReporter struct {
	mu          sync.Mutex
	logger      core.Logger
	label       string
	total       int
	done        int
	lastPercent int
}

func newProgressReporter(logger core.Logger, label string, total int) *progressReporter {
	return &progressReporter{logger: logger, label: label, total: total, lastPercent: -1}
}

// rowDone records one finished row and logs when the percentage changes
func (p *progressReporter) rowDone() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	percent := p.done * 100 / p.total
	if percent != p.lastPercent {
		p.lastPercent = percent
		p.logger.Printf("\r%s %d%%", p.label, percent)
		if p.done == p.total {
			p.logger.Printf("\n")
		}
	}
}
