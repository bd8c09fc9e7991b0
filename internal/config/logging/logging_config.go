package logging

type LoggingConfig struct {
	EventLog string `json:"eventLog"`
	Level    string `json:"level"`
}

func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{EventLog: "logs/host.jsonl", Level: "warn"}
}
