// Package domain contains the core types for visual document comparison.
//
// These types have no dependencies on adapters or infrastructure. They
// describe rendered pages, perceptual fingerprints, exclusion zones, page
// correspondences and pixel-difference results, plus the tunable options
// that drive the matching and diffing pipeline.
package domain
