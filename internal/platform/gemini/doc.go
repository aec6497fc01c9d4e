// Package gemini implements the generation.Generator interface on top of
// Google's Gemini API.
//
// The generator renders a prompt from a text template, asks the model for a
// JSON array of vocabulary items constrained by a response schema, and decodes
// the reply through generation.ParseItemsResponse so that only well-formed
// items reach the caller. Transient API failures (rate limits, server errors,
// network problems) are retried with exponential backoff and jitter; content
// blocks and malformed responses are surfaced immediately as permanent errors
// from the generation package taxonomy.
package gemini
