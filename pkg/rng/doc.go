// Package rng provides deterministic random number generation for the
// mapgen pipeline.
//
// # Overview
//
// The RNG type ensures reproducible map generation by deriving stage-specific
// seeds from a master seed. This lets each pipeline stage (palette
// resolution, mapgen interpretation, overmap generation) draw from an
// independent random sequence while the overall pipeline stays deterministic
// for a given (seed, config) pair.
//
// # Sub-Seed Derivation
//
// Each RNG derives its seed using SHA-256:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where:
//   - masterSeed: the top-level seed for the whole generation run
//   - stageName: pipeline stage identifier (e.g. "palette", "mapgen", "overmap")
//   - configHash: hash of the configuration driving that run
//
// This ensures:
//  1. Same inputs always produce the same RNG sequence (determinism).
//  2. Different stages get independent random sequences (isolation).
//  3. Config changes change the sequence (sensitivity).
//
// # Usage
//
//	configHash := cfg.Hash()
//	paletteRNG := rng.NewRNG(cfg.Seed, "palette", configHash)
//	mapgenRNG := rng.NewRNG(cfg.Seed, "mapgen", configHash)
//
// Nested mapgen calls made during a generation draw from the caller's RNG;
// no separate stage is derived for them.
//
// # Thread Safety
//
// RNG instances are NOT thread-safe. Each generation call owns exactly one
// RNG per stage; do not share an RNG across concurrent generation calls.
package rng
