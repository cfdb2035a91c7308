package uploadclient

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	barWidth     = 32
	renderPeriod = 120 * time.Millisecond
)

// progress рисует однострочный ASCII-индикатор передачи файла в out.
// nil-progress ничего не делает, поэтому вызывающему коду не нужны проверки.
type progress struct {
	out   io.Writer
	label string
	total int64

	mu        sync.Mutex
	done      int64
	lastDraw  time.Time
	lastWidth int
	closed    bool
}

func newProgress(out io.Writer, label string, total int64) *progress {
	if out == nil {
		return nil
	}
	p := &progress{out: out, label: label, total: total}
	p.draw(true, "")
	return p
}

// Write считает байты; используется как приёмник io.TeeReader.
func (p *progress) Write(b []byte) (int, error) {
	if p == nil || len(b) == 0 {
		return len(b), nil
	}
	p.mu.Lock()
	p.done += int64(len(b))
	p.mu.Unlock()
	p.draw(false, "")
	return len(b), nil
}

func (p *progress) draw(force bool, tail string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	now := time.Now()
	if !force && now.Sub(p.lastDraw) < renderPeriod {
		return
	}
	p.lastDraw = now
	p.writeLocked(p.line()+tail, "")
}

// finish закрывает индикатор отметкой об успехе или ошибкой.
func (p *progress) finish(err error) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true

	mark := " ok"
	if err != nil {
		mark = " failed: " + err.Error()
	}
	p.writeLocked(p.line()+mark, "\n")
}

func (p *progress) writeLocked(line, end string) {
	pad := ""
	if p.lastWidth > len(line) {
		pad = strings.Repeat(" ", p.lastWidth-len(line))
	}
	p.lastWidth = len(line)
	fmt.Fprintf(p.out, "\r%s%s%s", line, pad, end)
}

func (p *progress) line() string {
	if p.total <= 0 {
		return fmt.Sprintf("%s %s transferred", p.label, humanBytes(p.done))
	}

	ratio := float64(p.done) / float64(p.total)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*barWidth + 0.5)
	return fmt.Sprintf("%s [%s%s] %3d%% %s/%s",
		p.label,
		strings.Repeat("=", filled),
		strings.Repeat(" ", barWidth-filled),
		int(ratio*100+0.5),
		humanBytes(p.done),
		humanBytes(p.total),
	)
}

func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}
	value := float64(v)
	suffixes := []string{"KB", "MB", "GB", "TB", "PB"}
	i := -1
	for value >= unit && i < len(suffixes)-1 {
		value /= unit
		i++
	}
	return fmt.Sprintf("%.1f %s", value, suffixes[i])
}
