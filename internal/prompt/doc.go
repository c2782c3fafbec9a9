// Package prompt is the chat prompt orchestration core. A Session composes
// the text sent to a completion backend from system instructions, rendered
// conversation memory and the new user input, parses the completion into a
// reasoning block and an answer, and accumulates token usage and history
// across turns.
package prompt
