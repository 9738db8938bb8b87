package loadtest

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	ProgressInterval     = time.Second
	LinkSampleSize       = 20
	PercentageMultiplier = 100
)

// Workbook layout constants.
const (
	colName       = 1  // A
	colOwner      = 2  // B
	colRelevant   = 5  // E
	colURLOld     = 6  // F
	colURLNew     = 7  // G
	colSourcing   = 24 // X
	workbookPerms = 0o750
)
