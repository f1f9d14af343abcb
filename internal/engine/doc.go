// Package engine evaluates the full engagement analytics pipeline.
//
// An Engine holds immutable configuration (timezone, milestone catalog,
// consistency cap, level policy, clock-skew policy). Evaluate is a pure
// function of that configuration, the caller-supplied "now" and an input
// snapshot:
//
//	events ──► eventlog.View ──► streak / consistency ──┐
//	goals ───► progress ────────────────────────────────┼─► Snapshot ─► milestone.Evaluate
//	journal ─► eventlog.JournalView ────────────────────┘
//	interests ─► level.ShouldAdvance ─► LevelUps
//
// The engine never reads the wall clock, never performs I/O and keeps no
// reference to the input after it returns, so an Engine may be shared by
// concurrent callers. Hosts persist the returned unlocks and level-ups.
//
// Clock skew: when "now" falls before the earliest logged day the engine
// either rejects the call (ClockReject, the default) or drops the
// future-dated rows (ClockClamp). Rows dated after today never count
// towards any metric under either policy.
package engine
