// Package network ties graph construction, lifecycle execution and
// serialization together behind a single Network value.
//
// A Network owns its layers and their canonical order. Callers get read
// access through Layers but can only change the order by building the
// network again or restoring it from records.
package network
