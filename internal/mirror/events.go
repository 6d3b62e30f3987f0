package mirror

// Events receives progress notifications from a run. The TUI implements it;
// the default sink discards everything. Implementations must be safe for
// concurrent use since the worker pool reports from several goroutines.
type Events interface {
	// AddItem registers a unit of work (one entry's metadata, one archive,
	// one cover) before it starts.
	AddItem(id, title string)

	// SetActive marks the item as in progress.
	SetActive(id string)

	// SetDone marks the item as finished successfully.
	SetDone(id string)

	// SetFailed marks the item as failed with a short message.
	SetFailed(id, msg string)
}

type noopEvents struct{}

func (noopEvents) AddItem(string, string)   {}
func (noopEvents) SetActive(string)         {}
func (noopEvents) SetDone(string)           {}
func (noopEvents) SetFailed(string, string) {}
