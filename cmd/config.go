package cmd

import (
	"fmt"
	"time"

	"porterage/internal/core/domain/model/request"
)

type Config struct {
	HTTPPort                  string
	IDResetPolicy             string
	IDCeiling                 int
	SenderDebounce            time.Duration
	SnapshotSchedule          string
	DBHost                    string
	DBPort                    string
	DBUser                    string
	DBPassword                string
	DBName                    string
	DBSslMode                 string
	KafkaHost                 string
	KafkaTransportEventsTopic string
	RabbitMQURL               string
	OutboundQueue             string
	LogLevel                  string
}

// Defaults applied by main when the environment leaves a value empty.
const (
	DefaultHTTPPort                  = "8080"
	DefaultSenderDebounce            = 1200 * time.Millisecond
	DefaultKafkaTransportEventsTopic = "transport.events"
	DefaultOutboundQueue             = "porter.notifications"
)

// Sequence builds the queue number allocator from IDResetPolicy and IDCeiling.
func (c Config) Sequence(now time.Time) (request.Sequence, error) {
	policy, err := request.ParseResetPolicy(c.IDResetPolicy)
	if err != nil {
		return request.Sequence{}, err
	}
	ceiling := c.IDCeiling
	if ceiling == 0 {
		ceiling = request.DefaultIDCeiling
	}
	return request.NewSequence(policy, ceiling, now)
}

// DSN is the PostgreSQL connection string for the audit archive.
func (c Config) DSN() string {
	sslMode := c.DBSslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode)
}
