// Package file reads ticket corpora from local CSV and YAML files.
//
// CSV headers are matched case-insensitively and unknown columns are
// ignored. Rows without a ticket ID receive a generated UUID. The
// resolved flag accepts the spellings true, yes and 1 in any case.
package file
