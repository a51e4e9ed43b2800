// Package hcl loads network descriptions written in HCL and turns them into
// builder definitions.
//
// A description is a flat list of labelled layer blocks:
//
//	layer "input" "in" { width = 3 }
//	layer "dense" "h1" {
//	  input = "in"
//	  width = 4
//	}
//	layer "output" "out" { input = "h1" }
//
// The attributes input and input2 name other layers. Every other attribute
// becomes a layer setting. The single layer without inputs is the network's
// input layer and the last declared layer is its output. Every layer in
// between gets its own hidden factory, ordered after the layers it reads
// from.
package hcl
