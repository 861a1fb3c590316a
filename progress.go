package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync/atomic"
	"time"
)

var sizeSuffixes = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// progressReporter prints a single updating progress line on stderr
type progressReporter struct {
	label     string
	totalSize int64
	current   atomic.Int64
	stop      chan struct{}
	done      chan struct{}
}

// startProgress starts reporting when enabled. The returned reporter is never nil; Add and Stop
// are no-ops on a disabled reporter.
func startProgress(enabled bool, label string, totalSize int64) *progressReporter {
	p := &progressReporter{label: label, totalSize: totalSize}
	if !enabled {
		return p
	}

	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.report(os.Stderr, time.Now())
	return p
}

// Add records n more processed bytes
func (p *progressReporter) Add(n int64) {
	p.current.Add(n)
}

// Stop prints the final line and waits for the reporter to exit
func (p *progressReporter) Stop() {
	if p.stop == nil {
		return
	}
	close(p.stop)
	<-p.done
}

func (p *progressReporter) report(out io.Writer, startTime time.Time) {
	defer close(p.done)

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.printLine(out, startTime)
		case <-p.stop:
			p.printLine(out, startTime)
			fmt.Fprintln(out)
			return
		}
	}
}

func (p *progressReporter) printLine(out io.Writer, startTime time.Time) {
	current := p.current.Load()
	elapsed := time.Since(startTime).Seconds()
	speed := 0.0
	if elapsed > 0 {
		speed = float64(current) / elapsed
	}

	// Output size of a patch is not known up front
	if p.totalSize <= 0 {
		fmt.Fprintf(out, "\r%s | %s (%s/s)    ", p.label, summarizeSizeSimple(float64(current)), summarizeSizeSimple(speed))
		return
	}

	fmt.Fprintf(out, "\r%s | %s/%s (%s/s)    ",
		p.label,
		summarizeSizeSimple(float64(current)),
		summarizeSizeSimple(float64(p.totalSize)),
		summarizeSizeSimple(speed),
	)
}

func summarizeSizeSimple(value float64, decimalPlaces ...int) string {
	if value == 0 {
		return "0 B"
	}

	dp := 2
	if len(decimalPlaces) > 0 {
		dp = decimalPlaces[0]
	}

	// Calculate magnitude
	mag := 0
	for value >= 1024 && mag < len(sizeSuffixes)-1 {
		value /= 1024
		mag++
	}

	return fmt.Sprintf("%."+strconv.Itoa(dp)+"f %s", value, sizeSuffixes[mag])
}
