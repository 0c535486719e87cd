package ingest

import (
	"context"
	"net"
	"time"

	"github.com/ondulab/sp3ctra-go/internal/logging"
)

// MaxDatagramSize bounds a single read; fragments are expected to be much
// smaller than this but a generous ceiling avoids truncating a legitimate
// jumbo datagram.
const MaxDatagramSize = 65507

// Listener owns the UDP socket, reassembles fragments into full lines via
// Reassembler, and publishes completed lines into a LineBuffer for the
// synthesis driver to consume.
type Listener struct {
	conn *net.UDPConn
	re   *Reassembler
	lb   *LineBuffer
	log  *logging.Logger
	rl   logging.RateLimiter
}

// NewListener builds a listener reading from conn. log may be nil to
// disable malformed-datagram warnings.
func NewListener(conn *net.UDPConn, re *Reassembler, lb *LineBuffer, log *logging.Logger) *Listener {
	return &Listener{conn: conn, re: re, lb: lb, log: log, rl: logging.RateLimiter{Interval: time.Second}}
}

// Run reads datagrams until ctx is cancelled or the socket errors. Each
// completed line is swapped into the LineBuffer and recorded as the
// fallback last-valid line.
func (l *Listener) Run(ctx context.Context) error {
	buf := make([]byte, MaxDatagramSize)
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		l.conn.Close()
		close(done)
	}()

	for {
		n, err := l.conn.Read(buf)
		if err != nil {
			select {
			case <-done:
				return ctx.Err()
			default:
				return err
			}
		}

		r, g, b, complete, err := l.re.Ingest(buf[:n])
		if err != nil {
			if l.log != nil && l.rl.Allow(time.Now()) {
				l.log.Logf(logging.ComponentIngest, logging.LevelWarning, "malformed datagram: %v", err)
			}
			continue
		}
		if complete {
			l.lb.Swap(r, g, b)
			l.lb.UpdateLastValid()
		}
	}
}
