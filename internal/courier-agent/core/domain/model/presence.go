package model

import "time"

type OperationalMode string

const (
	ModeInactive   OperationalMode = "INACTIVE"
	ModeActiveIdle OperationalMode = "ACTIVE_IDLE"
	ModeOnDelivery OperationalMode = "ON_DELIVERY"
)

// DeriveMode is the single place where the two presence inputs are combined.
// Both the location reporter and the offer coordinator consume its result,
// so there is exactly one definition of "on delivery" in the agent.
func DeriveMode(isAvailable, isOnDelivery bool) OperationalMode {
	if !isAvailable {
		return ModeInactive
	}
	if isOnDelivery {
		return ModeOnDelivery
	}
	return ModeActiveIdle
}

// ReportIntervals holds the position reporting cadence per mode.
type ReportIntervals struct {
	Idle     time.Duration
	Delivery time.Duration
}

func DefaultReportIntervals() ReportIntervals {
	return ReportIntervals{
		Idle:     3 * time.Minute,
		Delivery: 1 * time.Minute,
	}
}

// For returns the reporting interval for a mode, zero for ModeInactive.
func (r ReportIntervals) For(mode OperationalMode) time.Duration {
	switch mode {
	case ModeActiveIdle:
		return r.Idle
	case ModeOnDelivery:
		return r.Delivery
	default:
		return 0
	}
}
