package audiobuf

// Output is a backend capable of driving a Callback from a real audio
// device. Implementations never call back into the synthesis driver and
// never block on anything other than the host driver's own timing.
type Output interface {
	Start() error
	Stop() error
	Close() error
}
