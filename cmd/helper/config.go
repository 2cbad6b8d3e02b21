package main

import "time"

// ANSI color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
)

// Simulation timings
const (
	OfferPushInterval   = 30 * time.Second
	OfferTimeoutSeconds = 45
	// roughly one in three unresolved offers gets snatched by a phantom
	// competitor to exercise the race paths
	PhantomTakeChance = 3
)
