// Package pipeline ties the pieces of one lookup together: build and render
// the probe document, run the engine, parse its transcript, print the
// records and tally them.
package pipeline
