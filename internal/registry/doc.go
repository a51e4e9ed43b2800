// Package registry maps layer type tags to the Go constructors that build
// them.
//
// The registry is the single place where a tag found in a persisted record
// or a network description turns into a concrete layer. Layer packages
// contribute constructors through the Module interface, mirroring how they
// are wired into the application at startup. A Registry's Reconstruct method
// satisfies serializer.Reconstruct.
package registry
