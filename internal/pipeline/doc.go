// Package pipeline runs the fixed resample -> normalize -> trim sequence
// over a directory of audio files.
//
// Each stage reads the previous stage's staging directory (the original
// input for the first stage) and writes a new staging directory under the
// output directory. A consumed staging directory is removed only after the
// stage that read it has succeeded (a "commit"); the original input is
// never removed or written to. After the last stage its output is promoted
// into the output directory root.
//
// Execution is strictly sequential and stops at the first failure, leaving
// every directory produced so far on disk for inspection. Re-running into
// an output directory that already holds results from a previous run is
// unsupported: promotion refuses to overwrite existing entries.
package pipeline
