// Package docmirror provides a resumable documentation-site mirroring
// pipeline. It crawls a hierarchical documentation space breadth-first,
// normalizes each page to Markdown with a provenance header, writes pages
// under stable content-derived filenames, checkpoints progress so an
// interrupted crawl can resume without refetching, reconciles duplicate
// documents, and generates a table of contents for the mirrored corpus.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, fs/).
package docmirror
