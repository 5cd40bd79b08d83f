// Package tags validates and suggests style tags against a fixed reference
// corpus of recognized tokens with pairwise co-occurrence weights.
//
// The corpus (600+ entries) is embedded in the binary and loaded exactly once
// per process via [Default]; afterwards the [Index] is read-only, so all
// queries may run concurrently without coordination.
//
// Three query types are supported, each in bounded time:
//
//   - [Index.Lookup] : case-insensitive exact match
//   - [Index.Search] : fuzzy match ranked by a blended similarity score
//   - [Index.CompatibleWith] : co-occurring tags ranked by weight
//
// [Resolver] builds on the index to process raw comma-separated user input
// into a [models.TagValidationResult], optionally proposing compatible tags
// to append.
package tags
