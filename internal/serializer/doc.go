// Package serializer converts a canonical layer order into a position-indexed
// record list and back.
//
// A record carries the layer's type tag, its own settings and the positions
// of its inputs within the same list (inputLayerIndex, inputLayerIndex2).
// Positions always point at earlier records, so a list can be rebuilt in one
// pass from index 0. The mapping from type tag to concrete layer lives in a
// caller-supplied Reconstruct callback; the serializer itself is type-agnostic.
package serializer
