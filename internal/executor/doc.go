// Package executor drives a canonical layer order through the four
// lifecycle phases: initialize, runInput, calculateDeltas and adjustWeights.
//
// Every phase visits each layer exactly once, sequentially, in the direction
// recorded in its Phase value. The first layer that fails aborts the rest of
// the phase and the failure is returned as a *PhaseExecutionError. Nothing is
// retried or skipped; a caller that wants to recover re-runs the whole phase.
package executor
