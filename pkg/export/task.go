package export

// ProgressInterval is the number of rows between progress checkpoints.
const ProgressInterval = 10

// Task receives progress for a running export. Calls are fire-and-forget
// and happen on the exporting goroutine.
type Task interface {
	SetRunning()
	SetProgress(fraction float64)
	SetProgressDescription(description string)
	SetFinished()
}

// NopTask discards all progress.
type NopTask struct{}

func (NopTask) SetRunning()                   {}
func (NopTask) SetProgress(float64)           {}
func (NopTask) SetProgressDescription(string) {}
func (NopTask) SetFinished()                  {}
