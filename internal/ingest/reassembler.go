// Package ingest reassembles the UDP-fragmented RGB line-scan stream into
// complete lines and hands them to the synthesis driver through a shared
// double-buffer, the one collaborator the core's synthesis driver blocks
// on with a timed wait.
package ingest

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed-size prefix of every image datagram.
const HeaderSize = 1 + 4 + 4 + 4 + 4

// TypeImageData identifies an image-data fragment datagram.
const TypeImageData = byte(1)

// FragmentHeader is the fixed header every datagram carries ahead of its
// R/G/B fragment payload.
type FragmentHeader struct {
	Type           byte
	LineID         uint32
	FragmentID     uint32
	TotalFragments uint32
	FragmentSize   uint32
}

// ParseHeader decodes the fixed header from the front of a datagram.
func ParseHeader(datagram []byte) (FragmentHeader, error) {
	if len(datagram) < HeaderSize {
		return FragmentHeader{}, fmt.Errorf("ingest: datagram too short for header: %d bytes", len(datagram))
	}
	h := FragmentHeader{
		Type:           datagram[0],
		LineID:         binary.BigEndian.Uint32(datagram[1:5]),
		FragmentID:     binary.BigEndian.Uint32(datagram[5:9]),
		TotalFragments: binary.BigEndian.Uint32(datagram[9:13]),
		FragmentSize:   binary.BigEndian.Uint32(datagram[13:17]),
	}
	if h.Type != TypeImageData {
		return FragmentHeader{}, fmt.Errorf("ingest: unknown datagram type %d", h.Type)
	}
	return h, nil
}

// FragmentPayload splits the fragment body following the header into its
// R, G, B planes.
func FragmentPayload(datagram []byte, h FragmentHeader) (r, g, b []byte, err error) {
	want := HeaderSize + 3*int(h.FragmentSize)
	if len(datagram) < want {
		return nil, nil, nil, fmt.Errorf("ingest: datagram too short for fragment: have %d want %d", len(datagram), want)
	}
	body := datagram[HeaderSize:want]
	n := int(h.FragmentSize)
	return body[0:n], body[n : 2*n], body[2*n : 3*n], nil
}

// lineAssembly tracks partial fragment arrival for one in-flight line.
type lineAssembly struct {
	total     uint32
	received  uint32
	haveFrag  []bool
	r, g, b   []byte
}

// Reassembler holds in-flight lines keyed by line ID and completes them
// into full-length RGB lines of P pixels.
type Reassembler struct {
	pixelsPerLine int
	inFlight      map[uint32]*lineAssembly
}

// NewReassembler builds a reassembler for lines of pixelsPerLine pixels.
func NewReassembler(pixelsPerLine int) *Reassembler {
	return &Reassembler{
		pixelsPerLine: pixelsPerLine,
		inFlight:      make(map[uint32]*lineAssembly),
	}
}

// Ingest feeds one datagram into the reassembler. It returns the
// completed line's R/G/B planes and true once every fragment of that
// line has arrived; malformed datagrams are reported via err and
// otherwise ignored (the caller logs at a bounded rate and continues).
func (re *Reassembler) Ingest(datagram []byte) (r, g, b []byte, complete bool, err error) {
	h, err := ParseHeader(datagram)
	if err != nil {
		return nil, nil, nil, false, err
	}
	fr, fg, fb, err := FragmentPayload(datagram, h)
	if err != nil {
		return nil, nil, nil, false, err
	}

	a, ok := re.inFlight[h.LineID]
	if !ok {
		a = &lineAssembly{
			total:    h.TotalFragments,
			haveFrag: make([]bool, h.TotalFragments),
			r:        make([]byte, re.pixelsPerLine),
			g:        make([]byte, re.pixelsPerLine),
			b:        make([]byte, re.pixelsPerLine),
		}
		re.inFlight[h.LineID] = a
	}

	if h.FragmentID >= a.total || int(h.FragmentID) >= len(a.haveFrag) {
		return nil, nil, nil, false, fmt.Errorf("ingest: fragment id %d out of range for total %d", h.FragmentID, a.total)
	}

	offset := int(h.FragmentID) * int(h.FragmentSize)
	if offset+int(h.FragmentSize) > re.pixelsPerLine {
		return nil, nil, nil, false, fmt.Errorf("ingest: fragment offset %d+%d exceeds line width %d", offset, h.FragmentSize, re.pixelsPerLine)
	}

	if !a.haveFrag[h.FragmentID] {
		copy(a.r[offset:], fr)
		copy(a.g[offset:], fg)
		copy(a.b[offset:], fb)
		a.haveFrag[h.FragmentID] = true
		a.received++
	}

	if a.received < a.total {
		return nil, nil, nil, false, nil
	}

	delete(re.inFlight, h.LineID)
	return a.r, a.g, a.b, true, nil
}

// Pending returns the number of lines currently being reassembled, for
// diagnostics.
func (re *Reassembler) Pending() int {
	return len(re.inFlight)
}
