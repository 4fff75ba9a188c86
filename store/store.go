// Copyright (c) 2026, OpenMetaHub (https://www.openmetahub.io).
//
// OpenMetaHub licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package store

import (
	"context"
	"io"
)

// BlobLocation identifies one committed blob in the store together with the
// integrity metadata the store computed while writing it.
type BlobLocation struct {
	URI      string
	Size     int64
	Checksum string
}

// BlobStore is the external binary-object store collaborator. Put consumes
// the reader incrementally; implementations must not buffer the whole blob
// in memory, so store-side backpressure reaches the caller.
type BlobStore interface {
	// Put streams the payload into the store. declaredSize is the caller's
	// declared byte length, or a negative value when unknown.
	Put(ctx context.Context, data io.Reader, declaredSize int64) (BlobLocation, error)

	// Get opens the blob at uri for reading. The caller closes the stream.
	Get(ctx context.Context, uri string) (io.ReadCloser, error)

	// Delete removes the blob at uri.
	Delete(ctx context.Context, uri string) error

	// InUse reports whether the blob at uri is still referenced elsewhere
	// and must not be deleted.
	InUse(ctx context.Context, uri string) (bool, error)
}
