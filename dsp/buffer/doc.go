// Package buffer provides the fixed-capacity sample stores used by the
// streaming stretcher: a FIFO ring for buffered input and an overlap-add
// accumulator for synthesized output.
//
// Both types allocate once at construction and then work purely with
// modulo index arithmetic, so they are safe to use on a real-time thread.
package buffer
