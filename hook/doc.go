// Package hook implements the dispatch boundary between a class-load event
// source and read-only observers of decoded class files.
//
// A JVMTI-style agent receives ClassFileLoadHook events carrying a class
// name and the raw class bytes. Hook is the Go side of that boundary: it
// parses each event's bytes once, caches the decoded tree keyed by name and
// content fingerprint, and fans the tree out to registered observers. The
// bytes of a hostile or corrupt class are an expected input, not a fault:
// parse failures are logged, counted in Stats and returned to the caller.
//
// Observers must treat the tree as read-only; it is shared across observers
// and cached across events.
package hook
