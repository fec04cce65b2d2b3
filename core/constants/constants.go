package constants

import "time"

const (
	// DefaultTimeout bounds every outbound call made on behalf of a request.
	DefaultTimeout = 30 * time.Second

	// Database pool tuning
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"

	// Calendar sync
	SyncLeaseTTL           = 5 * time.Minute
	ChannelValidity        = 7 * 24 * time.Hour
	ChannelRenewalWindow   = 24 * time.Hour
	DefaultSemesterWeeks   = 16
	GoogleCalendarTimezone = "UTC"
)
