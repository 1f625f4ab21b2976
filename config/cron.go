package config

// Map of job names to job functions. Jobs that need the config package
// self-register through cron.Register instead (see cron/jobs).
type CronJob struct {
	Schedule string
	Job      func(...string)
}

var CronJobs = map[string]CronJob{
	// Add more jobs here
}
