// Package ffmpeg builds and supervises ffmpeg invocations: the per-segment
// encode command, the lossless concat command, and the process lifecycle
// around them (output draining, liveness polling, and the escalating
// shutdown ladder driven by the cancellation token).
package ffmpeg
