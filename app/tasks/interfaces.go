package tasks

// TaskSchedulerInterface defines the interface for background task
// scheduling. Used by the main application and the HTTP handlers to manage
// scrape and publish runs.
// Example usage:
//
//	scheduler := NewScheduler(srcs, client, eventRepo, generator)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewScrapeSourceTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
