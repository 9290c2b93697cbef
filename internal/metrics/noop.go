package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordLogin(authSource string, success bool, duration time.Duration) {}
func (n *NoopMetrics) RecordDirectoryRequest(duration time.Duration)                       {}
func (n *NoopMetrics) RecordTokenIssued(duration time.Duration)                            {}
func (n *NoopMetrics) RecordTokenValidation(result string)                                 {}
func (n *NoopMetrics) RecordEncryptionOp(op, target string, success bool)                  {}
func (n *NoopMetrics) RecordDatabaseQueryError(operation string)                           {}
