package models

// Currency is the only currency the provider reports amounts in.
const Currency = "RWF"

// TimestampLayout is the literal date/time form embedded in message bodies.
const TimestampLayout = "2006-01-02 15:04:05"

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
