package badger

import (
	"encoding/hex"
	"fmt"

	"github.com/go-crypt/x/blake2b"
)

// Key prefixes for different data types
const (
	fragmentPrefix       = "frag"
	fragmentDocPrefix    = "fragdoc"
	fragmentPathPrefix   = "fragpath"
	collectionMetaPrefix = "colmeta"
)

// makeFragmentKey generates a key for a fragment record.
// Format: frag:collection:fragmentID
func makeFragmentKey(collection, fragmentID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", fragmentPrefix, collection, fragmentID))
}

// makeFragmentScanPrefix generates the iteration prefix for all fragments
// of a collection.
func makeFragmentScanPrefix(collection string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", fragmentPrefix, collection))
}

// makeDocIndexKey generates a composite key for the document-id index.
// Format: fragdoc:collection:documentID:fragmentID
func makeDocIndexKey(collection, documentID, fragmentID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:%s", fragmentDocPrefix, collection, documentID, fragmentID))
}

// makeDocIndexPrefix generates the iteration prefix for all fragments of a
// document.
func makeDocIndexPrefix(collection, documentID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:", fragmentDocPrefix, collection, documentID))
}

// makePathIndexKey generates a composite key for the file-path index.
// The path is hashed so that path separators never collide with the key
// separator. Format: fragpath:collection:pathHash:fragmentID
func makePathIndexKey(collection, filePath, fragmentID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:%s", fragmentPathPrefix, collection, hashPath(filePath), fragmentID))
}

// makePathIndexPrefix generates the iteration prefix for all fragments
// stored under an exact file path.
func makePathIndexPrefix(collection, filePath string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:", fragmentPathPrefix, collection, hashPath(filePath)))
}

// makeCollectionMetaKey generates the key for collection-level metadata.
func makeCollectionMetaKey(collection string) []byte {
	return []byte(fmt.Sprintf("%s:%s", collectionMetaPrefix, collection))
}

func hashPath(filePath string) string {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(filePath))
	return hex.EncodeToString(h.Sum(nil))
}
