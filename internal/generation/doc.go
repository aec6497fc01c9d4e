// Package generation defines the boundary to external AI/LLM services used
// for producing new vocabulary items. It holds the Generator interface, the
// request and wire shapes, and schema validation of model output, without
// coupling the application core to a specific provider. The Gemini-backed
// implementation lives in internal/platform/gemini.
package generation
