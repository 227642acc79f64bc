package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// progressPrinter renders a single in-place progress line for batch steps.
// Updates arrive from worker callbacks; the line refreshes on a ticker so a
// stalled batch still shows movement of time.
type progressPrinter struct {
	total    int
	name     string
	mu       sync.Mutex
	done     int
	updates  chan struct{}
	quit     chan struct{}
	stopOnce sync.Once
}

func newProgressPrinter(total int, name string) *progressPrinter {
	if total <= 0 {
		total = 1
	}
	return &progressPrinter{
		total:   total,
		name:    name,
		updates: make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}
}

func (p *progressPrinter) Start() {
	go p.loop()
}

// Set records the number of completed items. Safe to call from the runner's
// progress callback.
func (p *progressPrinter) Set(completed int) {
	p.mu.Lock()
	p.done = completed
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

func (p *progressPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.quit)
	})
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 80))
	p.print()
	fmt.Fprintln(os.Stdout)
}

func (p *progressPrinter) loop() {
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.updates:
			p.print()
		case <-ticker.C:
			p.print()
		case <-p.quit:
			return
		}
	}
}

func (p *progressPrinter) print() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()

	if done > p.total {
		p.total = done
	}
	percent := (float64(done) / float64(p.total)) * 100
	fmt.Fprintf(os.Stdout, "\r[%s] Progress: %d/%d (%.1f%%)", p.name, done, p.total, percent)
}
