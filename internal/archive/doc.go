// Writes the release archive for a packaging run.
//
// The archive is a zip of the staging bundle with entry paths relative to
// the bundle root, preserved executable bits, and timestamps pinned to a
// fixed epoch so that unchanged input produces a byte-identical archive.
// A failed write never leaves a partial archive behind.
package archive
