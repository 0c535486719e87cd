package midi

import "github.com/ondulab/sp3ctra-go/internal/audiobuf"

// Poller samples a Source at a bounded rate (every Period calls to Tick)
// and applies the MasterVolume and AdditiveMix of any pending update to a
// MixState; an update's ReverbSend is not applied. It is driven from the
// audio callback's update counter, not from the reverb send rate.
type Poller struct {
	source Source
	mix    *audiobuf.MixState
	period uint32
	count  uint32
}

// NewPoller builds a poller sampling source every period Tick calls and
// applying updates to mix.
func NewPoller(source Source, mix *audiobuf.MixState, period uint32) *Poller {
	if source == nil {
		source = NoopSource{}
	}
	if period == 0 {
		period = 64
	}
	return &Poller{source: source, mix: mix, period: period}
}

// Tick advances the internal counter and, once per period, pulls the
// latest update and applies it to the MixState.
func (p *Poller) Tick() {
	p.count++
	if p.count < p.period {
		return
	}
	p.count = 0

	update, ok := p.source.Latest()
	if !ok {
		return
	}
	p.mix.SetMasterVolume(update.MasterVolume)
	p.mix.SetAdditiveMix(update.AdditiveMix)
}
