package toolpath

// ProgressReporter provides callbacks for reporting toolpath progress.
// Callbacks are never invoked concurrently and passes are reported in
// ascending index order.
type ProgressReporter interface {
	// OnCopperMerged is called with the number of traces and pads in the
	// region and the separate copper islands they form, before any pass is
	// cut.
	OnCopperMerged(primitives, islands int)

	// OnPassesStart is called before the first pass.
	OnPassesStart(total int)

	// OnPassComplete is called once per pass, in order.
	OnPassComplete(pass Pass)

	// OnComplete is called when every pass has been computed.
	OnComplete(set *Set)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnCopperMerged(primitives, islands int) {}
func (n *NoOpProgressReporter) OnPassesStart(total int)                {}
func (n *NoOpProgressReporter) OnPassComplete(pass Pass)               {}
func (n *NoOpProgressReporter) OnComplete(set *Set)                    {}
