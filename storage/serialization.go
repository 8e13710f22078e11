// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/docmem/core"
)

// Fragments and collection metadata are persisted in the MUS format.
// Timestamps are stored as Unix microseconds; vectors as fixed-width
// float32 slices.
var vectorSer = ord.NewSliceSer[float32](raw.Float32)

// MarshalFragment serializes a Fragment to bytes.
func MarshalFragment(fragment *core.Fragment) []byte {
	buf := make([]byte, sizeFragment(fragment))
	n := ord.String.Marshal(fragment.Id, buf)
	n += ord.String.Marshal(fragment.DocumentId, buf[n:])
	n += ord.String.Marshal(fragment.FilePath, buf[n:])
	n += ord.String.Marshal(string(fragment.FileType), buf[n:])
	n += varint.Int.Marshal(fragment.ChunkIndex, buf[n:])
	n += varint.Int.Marshal(fragment.TotalChunks, buf[n:])
	n += varint.Int64.Marshal(fragment.Timestamp.UnixMicro(), buf[n:])
	n += ord.String.Marshal(fragment.EmbeddingMethod, buf[n:])
	n += ord.String.Marshal(fragment.CollectionName, buf[n:])
	n += ord.String.Marshal(fragment.Content, buf[n:])
	vectorSer.Marshal(fragment.Vector, buf[n:])
	return buf
}

func sizeFragment(fragment *core.Fragment) int {
	return ord.String.Size(fragment.Id) +
		ord.String.Size(fragment.DocumentId) +
		ord.String.Size(fragment.FilePath) +
		ord.String.Size(string(fragment.FileType)) +
		varint.Int.Size(fragment.ChunkIndex) +
		varint.Int.Size(fragment.TotalChunks) +
		varint.Int64.Size(fragment.Timestamp.UnixMicro()) +
		ord.String.Size(fragment.EmbeddingMethod) +
		ord.String.Size(fragment.CollectionName) +
		ord.String.Size(fragment.Content) +
		vectorSer.Size(fragment.Vector)
}

// UnmarshalFragment deserializes a Fragment from bytes.
// Any decoding failure wraps ErrMalformedRecord; this is the single typed
// decoding step at the store boundary, so callers never revalidate
// structure downstream.
func UnmarshalFragment(data []byte) (fragment *core.Fragment, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
	}()

	fragment = &core.Fragment{}
	var n, total int

	if fragment.Id, n, err = ord.String.Unmarshal(data); err != nil {
		return nil, err
	}
	total += n
	if fragment.DocumentId, n, err = ord.String.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	total += n
	if fragment.FilePath, n, err = ord.String.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	total += n
	var fileType string
	if fileType, n, err = ord.String.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	fragment.FileType = core.FileType(fileType)
	total += n
	if fragment.ChunkIndex, n, err = varint.Int.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	total += n
	if fragment.TotalChunks, n, err = varint.Int.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	total += n
	var micros int64
	if micros, n, err = varint.Int64.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	fragment.Timestamp = time.UnixMicro(micros).UTC()
	total += n
	if fragment.EmbeddingMethod, n, err = ord.String.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	total += n
	if fragment.CollectionName, n, err = ord.String.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	total += n
	if fragment.Content, n, err = ord.String.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	total += n
	if fragment.Vector, _, err = vectorSer.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	return fragment, nil
}

// MarshalCollectionMeta serializes collection metadata to bytes.
func MarshalCollectionMeta(meta *CollectionMeta) []byte {
	buf := make([]byte, sizeCollectionMeta(meta))
	n := ord.String.Marshal(meta.Name, buf)
	n += ord.String.Marshal(meta.Description, buf[n:])
	n += ord.String.Marshal(meta.EmbeddingMethod, buf[n:])
	n += ord.String.Marshal(meta.EmbeddingModel, buf[n:])
	varint.Int64.Marshal(meta.CreatedAt.UnixMicro(), buf[n:])
	return buf
}

func sizeCollectionMeta(meta *CollectionMeta) int {
	return ord.String.Size(meta.Name) +
		ord.String.Size(meta.Description) +
		ord.String.Size(meta.EmbeddingMethod) +
		ord.String.Size(meta.EmbeddingModel) +
		varint.Int64.Size(meta.CreatedAt.UnixMicro())
}

// UnmarshalCollectionMeta deserializes collection metadata from bytes.
func UnmarshalCollectionMeta(data []byte) (meta *CollectionMeta, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
	}()

	meta = &CollectionMeta{}
	var n, total int

	if meta.Name, n, err = ord.String.Unmarshal(data); err != nil {
		return nil, err
	}
	total += n
	if meta.Description, n, err = ord.String.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	total += n
	if meta.EmbeddingMethod, n, err = ord.String.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	total += n
	if meta.EmbeddingModel, n, err = ord.String.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	total += n
	var micros int64
	if micros, _, err = varint.Int64.Unmarshal(data[total:]); err != nil {
		return nil, err
	}
	meta.CreatedAt = time.UnixMicro(micros).UTC()
	return meta, nil
}
