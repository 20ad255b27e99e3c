// Package output renders command results in the user's chosen format.
//
// Every command result implements Document; table output uses its
// tabular projection, while json and yaml marshal the document itself.
package output
