// Package badger implements the storage interfaces on BadgerDB.
//
// All collections share one database; a collection owns three key spaces:
// fragment records, a document-id index, and a file-path index (hashed so
// path separators cannot collide with the key separator). Collection
// metadata is persisted under its own key so the embedding method and model
// that scope a collection survive restarts.
//
// Similarity queries are a brute-force cosine scan over the collection's
// fragments. Collections here hold one corpus of documents, not web-scale
// data, and the scan keeps the backend free of index maintenance.
package badger
