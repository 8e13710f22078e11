// Package extract normalizes document files into plain text for chunking.
//
// Markdown files are read verbatim as UTF-8; PDF files are extracted page by
// page, skipping pages that cannot be read. Extractors report
// core.ErrExtraction when a file yields no text at all.
package extract
