// Package assistant implements the conversational layer of the marketplace.
//
// The web channel relays chat to a completion provider and returns any
// bracket-marker action as a proposal for the client to confirm. The Telegram
// channel keeps per-chat sessions, runs the post-gig and freelancer
// registration wizards, and executes the actions it parses from completions.
//
// Prompts, canned replies, cancel keywords and wizard questions live in the
// embedded catalog.yaml.
package assistant
