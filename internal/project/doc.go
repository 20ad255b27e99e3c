// Package project handles the local side of a BRAIN project: the
// brain.bproj manifest that names the files to upload, and the per
// directory .brains registry that remembers which brain a project
// belongs to.
package project
