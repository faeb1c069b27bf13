// Assembles the staging bundle for a packaging run.
//
// The bundle merges the function's source tree with the filtered
// installation target into a single flat directory: dependency modules
// sit at the bundle root alongside the function's entry file, matching
// the layout the Lambda loader resolves imports against. Merging uses
// overlay-copy semantics; conflicting destination files are overwritten
// after a warning, never silently.
package bundle
