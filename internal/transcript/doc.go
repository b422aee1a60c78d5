// Package transcript turns the engine's terminal output into macro records.
//
// The engine answers each \show with a block like:
//
//	*> \foo=macro:
//	#1#2->expansion text that the engine may wrap
//	over several lines.
//	<recently read> \foo
//
// [Parser] is a forward-only state machine over those lines. It yields one
// [Record] per answered query, in query order, and skips everything else
// (banner, package chatter, aux/log announcements).
package transcript
