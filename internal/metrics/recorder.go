package metrics

import "time"

// Recorder is the interface all metric recording goes through, so services
// never depend on Prometheus directly and metrics can be disabled entirely.
type Recorder interface {
	// Authentication
	RecordLogin(authSource string, success bool, duration time.Duration)
	RecordDirectoryRequest(duration time.Duration)

	// Tokens
	RecordTokenIssued(duration time.Duration)
	RecordTokenValidation(result string)

	// Encryption proxy
	RecordEncryptionOp(op, target string, success bool)

	// Database
	RecordDatabaseQueryError(operation string)
}
