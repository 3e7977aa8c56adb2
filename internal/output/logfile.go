package output

import "os"

// LogFilePath returns the log file requested through CVSGIT_LOG_FILE.
// An empty result means no file logging.
func LogFilePath() string {
	return os.Getenv("CVSGIT_LOG_FILE")
}
