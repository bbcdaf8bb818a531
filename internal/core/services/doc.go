// Package services implements the comparison engine: perceptual hashing,
// structural similarity scoring, optimal page matching, pixel diffing and
// the run orchestration that ties them together.
//
// Services depend only on domain types and driven ports; adapters inject
// the cache store and consume the driving Comparer port.
package services
