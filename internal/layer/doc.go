// Package layer defines the capability set every node of a network graph
// exposes to the builder, the lifecycle executor and the serializer.
//
// A layer's numeric behavior is opaque to this package. The engine only needs
// to know a node's type tag, which nodes feed it, how to drive it through the
// four lifecycle phases and how to describe its settings for persistence.
// Concrete layers implement Node directly or embed Base and override the
// phase methods they care about.
package layer
