package config

type WorkerKeyStruct struct {
	AnalyticsEventsQueue      string
	AnalyticsEventsDeadLetter string
}

var WorkerKey = &WorkerKeyStruct{
	AnalyticsEventsQueue:      "analytics_events_queue",
	AnalyticsEventsDeadLetter: "analytics_events_dead",
}
