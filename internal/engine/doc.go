// Package engine runs the TeX engine on a probe document and captures its
// output.
//
// Types:
//   - Runner (interface), Exec (os/exec implementation), Cached (LRU wrapper)
//   - StartError, StderrError; sentinels ErrPipeUnavailable, ErrEncoding
//
// Exec writes the whole probe to the engine's stdin, closes it, and collects
// stdout and stderr until the process exits. The exit status is ignored:
// TeX exits non-zero for recoverable errors and zero for some fatal ones,
// so any stderr output is treated as failure instead. Nothing is retried;
// the same input always produces the same transcript.
package engine
