// Parses pip requirements manifests.
//
// A manifest is an ordered list of (name, constraint) pairs. Parsing never
// reorders entries; a name that appears more than once keeps its first
// position and takes the constraint of its last occurrence. Resolution
// itself stays with pip: this package only names what the manifest asks for.
package manifest
