// Package automod contains the chat moderation rule engine and its
// supporting stores.
//
// The design is to have many small deterministic rules, which implement a common
// interface: they are passed an event with every signal already resolved (the
// author's display name in each comparison form, the canonicalized message
// text, the avatar risk tier), and record ban or warn effects on it. Rules
// run in a fixed order and the first ban wins. All blocking I/O (profile
// photo fetch and scoring, rule list reads) happens before rule execution and
// fails open: a broken signal degrades to "no signal", it never bans anyone
// and never aborts the decision.
package automod
