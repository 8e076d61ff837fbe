// Package content implements the two-pass, copy-from inheritance resolution
// engine shared by every typed content loader (terrain, furniture, trap,
// mapgen, palette, overmap terrain/special).
//
// A loader using this package indexes raw JSON records by id/abstract, then
// resolves each concrete record by recursively merging parent fields
// (child wins, parent fills gaps, extend unions arrays, delete removes
// entries), assigns a dense integer id, and hands the merged field set to a
// type-specific decoder. See ResolveInheritance for the exact algorithm.
package content
