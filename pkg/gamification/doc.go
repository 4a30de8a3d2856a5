// Package gamification implements the local scoring, leveling, streak,
// achievement, and daily-challenge engine driven by engagement checks.
//
// The pure functions in stats.go operate on UserStats values with no
// side effects. The Engine sequences them into the check pipeline against
// an injected Repository, so everything is testable with an in-memory
// store. The achievement catalog is data: an ordered list of entries with
// unlock predicates, replaceable without touching the engine.
package gamification
