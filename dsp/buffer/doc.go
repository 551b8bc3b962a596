// Package buffer provides the multi-channel audio block processed in place
// by every stage of the vocal pipeline, plus a pool for block reuse on
// paths that receive audio of varying shape (network, file rendering).
//
// A Block stores its channels in one contiguous backing array so that
// resizing within capacity never allocates. Interleaving helpers convert
// between the planar layout and the interleaved layouts used by audio
// devices and wire formats.
package buffer
