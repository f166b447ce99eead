// Package model defines the field descriptors edited by the schema editor.
// A schema is an ordered list of Descriptor values; order is meaningful and
// defines both display and persisted order. Descriptors serialise to the
// canonical JSON projection stored under the `fields` key of the schema
// buffer: empty strings and false flags are omitted, variant attributes
// (`link_doctype`, `options`, `child_doctype`, `formula`) appear only when
// set, and keys the editor does not understand travel through Extra so that
// imported documents survive a round trip unchanged.
package model
