// Package dataset decodes trait and item files (JSON or YAML) and provides a
// file-backed loader.
//
// Trait documents are a list of {name, true_label, false_label}. Item
// documents are a list of {genus, species, description, characteristics},
// where characteristics is a list of {name, value}. Either list may also be
// wrapped in an object under "traits" or "items".
package dataset
