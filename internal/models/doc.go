// Package models defines domain entities for the TracksMartin music generation CLI.
//
// The package contains two categories of types:
//
// 1. Remote job records exchanged with the generation service:
//   - [Task] : one asynchronous remote job, identified by a short-lived task ID
//   - [Clip] : one durably-identified unit of generated or derived audio
//
// 2. Tag corpus records used for style tag validation and suggestion:
//   - [TagEntry] : a recognized style token with co-occurrence weights
//   - [TagValidationResult] : the outcome of resolving a user tag string
//
// Tasks are created on submission and mutated only by applying poll responses
// through [Task.Merge]; once terminal they are never resurrected. The merge is
// monotonic: previously observed clip fields are never overwritten with
// emptier data from a later response.
package models
