// Package services implements clients for the two external collaborators of
// the TracksMartin CLI.
//
// [SunoService] talks to the Suno music generation API. It translates each of
// the job kinds (create, extend, concat, cover, remaster, stems, add-vocal,
// persona, midi, upload) into a single outbound request and normalizes the
// provider's heterogeneous response shapes into the common [models.Task]
// model. The client is stateless per call; all retry and timing policy lives
// in the tasks package.
//
// [LyricsService] talks to the OpenAI chat completion API through the
// [Completer] interface consumed by the lyrics package.
//
// Every failure from either client is classified into exactly one of three
// sentinel classes from the shared package:
//
//   - [shared.ErrTransient] : network failure, 5xx, rate limiting (retryable)
//   - [shared.ErrPermanent] : 4xx, validation rejection (never retried)
//   - [shared.ErrMalformed] : response could not be parsed into the Task model
//
// Callers test the class with errors.Is.
package services
