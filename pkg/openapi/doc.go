// Package openapi converts a field collection to and from an OpenAPI 3
// component schema. Every property carries an x-fieldeditor-type extension
// and the component lists property order under x-fieldeditor-order, so a
// collection survives the trip through a document unchanged.
package openapi
