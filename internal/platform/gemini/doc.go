// Package gemini adapts Google's Gemini API to llm.Completer.
//
// The adapter translates conversation history into genai contents, passes
// the system prompt as the system instruction, and collapses the first
// candidate's text parts into the reply. A response stopped by safety
// filters, or a prompt blocked outright, surfaces as llm.ErrContentBlocked.
// Calls are not retried; the caller bounds them with llm.WithTimeout.
package gemini
