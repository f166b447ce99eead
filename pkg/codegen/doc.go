// Package codegen emits a Go struct mirroring a field collection, so a host
// can decode records stored under the schema with encoding/json.
package codegen
