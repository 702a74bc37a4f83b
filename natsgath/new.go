package natsgath

import (
	"github.com/nats-io/nats.go"
)

// New creates a NATS gatherer that publishes grade-session messages to the
// given subject.
func New(nc *nats.Conn, sessionUuid string, subject string) *natsGatherer {
	return &natsGatherer{
		nc:          nc,
		subject:     subject,
		sessionUuid: sessionUuid,
	}
}
