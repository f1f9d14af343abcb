// Package harness provides conformance testing for the analytics engine.
//
// A scenario pins the clock, the timezone and a record snapshot, evaluates
// them through the real engine and checks the outcome.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: three_day_run
//	description: "What this scenario validates"
//	timezone: America/New_York      # optional, default UTC
//	now: 2024-07-03T20:00:00Z
//	clock_policy: reject            # optional: reject | clamp
//	consistency_cap: 30             # optional
//	catalog: ../catalogs/pair.cue   # optional CUE catalog
//	milestones:                     # optional inline catalog
//	  - { id: five, kind: total-events, threshold: 5, title: "Five" }
//	level:                          # optional threshold policy
//	  min_samples: 7
//	  bars: { 1: 5, 2: 8 }
//	input:
//	  events: [...]
//	  goals: [...]
//	  journal: [...]
//	  interests: [...]
//	  unlocked: [...]
//	assertions:
//	  - { type: metric, metric: current_streak, value: 3 }
//	  - { type: newly_unlocked, ids: [first_step, streak_3] }
//	  - { type: level_ups, level_ups: [{ interest: reading, from: 2, to: 3 }] }
//	  - { type: error, code: CLOCK_SKEW }
//	  - { type: stable }
//
// # Assertion Types
//
//   - metric: compares a dotted path into the metric snapshot, e.g.
//     "goal_streaks.g1.grace", within a small float tolerance
//   - newly_unlocked: the exact, sorted list of new milestone ids
//   - level_ups: the exact list of level changes
//   - error: the engine failed with the given runtime error code
//   - stable: re-evaluating with the new unlocks merged in unlocks nothing
//
// Unknown YAML fields are rejected so that typos fail loudly.
//
// # Golden Files
//
// RunWithGolden snapshots the evaluation as canonical JSON under
// testdata/golden/{name}.golden. The input hash is omitted.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/three_day_run.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
