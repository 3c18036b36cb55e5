// Package workspace resolves output directory names under a staging root and
// performs the directory-level operations the writer needs: existence checks,
// recursive clearing and creation.
//
// Relative names are joined under the root (the system temp dir by default).
// Absolute names are used as given. Names that escape the root, resolve to the
// root itself, or name a filesystem root are rejected before anything touches
// the disk.
package workspace
