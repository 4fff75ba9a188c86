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
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/openmetahub/artifact-registry-service/config"
	"github.com/openmetahub/artifact-registry-service/utils"
)

const localURIScheme = "local://"

// LocalStore keeps blobs as flat files under a base directory. Files are
// written through a temp file and renamed into place so a partially written
// blob never becomes visible.
type LocalStore struct {
	baseDir  string
	maxBytes int64
	disabled bool
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(cfg config.BlobStoreConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob store directory: %w", err)
	}
	return &LocalStore{
		baseDir:  cfg.Path,
		maxBytes: cfg.MaxBlobSizeBytes,
		disabled: cfg.Disabled,
	}, nil
}

// Put streams the payload to disk, computing size and MD5 checksum as the
// bytes arrive.
func (s *LocalStore) Put(ctx context.Context, data io.Reader, declaredSize int64) (BlobLocation, error) {
	if s.disabled {
		return BlobLocation{}, utils.ErrStoreDisabled
	}
	if s.maxBytes > 0 && declaredSize > s.maxBytes {
		return BlobLocation{}, fmt.Errorf("declared size %d: %w", declaredSize, utils.ErrBlobTooLarge)
	}

	key := uuid.NewString()
	tmpPath := filepath.Join(s.baseDir, key+".tmp")
	finalPath := filepath.Join(s.baseDir, key)

	f, err := os.Create(tmpPath)
	if err != nil {
		return BlobLocation{}, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}

	hash := md5.New()
	limit := s.maxBytes
	if limit <= 0 {
		limit = 1 << 62
	}
	// read one byte past the limit to distinguish "exactly at" from "over"
	written, err := io.Copy(io.MultiWriter(f, hash), io.LimitReader(contextReader{ctx, data}, limit+1))
	closeErr := f.Close()
	if err != nil {
		_ = os.Remove(tmpPath)
		return BlobLocation{}, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return BlobLocation{}, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, closeErr)
	}
	if written > limit {
		_ = os.Remove(tmpPath)
		return BlobLocation{}, fmt.Errorf("payload exceeds %d bytes: %w", s.maxBytes, utils.ErrBlobTooLarge)
	}
	if declaredSize >= 0 && written != declaredSize {
		_ = os.Remove(tmpPath)
		return BlobLocation{}, fmt.Errorf("%w: declared size %d does not match %d bytes received", utils.ErrInvalidInput, declaredSize, written)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return BlobLocation{}, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}

	return BlobLocation{
		URI:      localURIScheme + key,
		Size:     written,
		Checksum: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

// Get opens the blob file for reading.
func (s *LocalStore) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	path, err := s.pathFor(uri)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, utils.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	return f, nil
}

// Delete removes the blob file.
func (s *LocalStore) Delete(ctx context.Context, uri string) error {
	path, err := s.pathFor(uri)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	return nil
}

// InUse always reports false: the local store has no external references.
func (s *LocalStore) InUse(ctx context.Context, uri string) (bool, error) {
	return false, nil
}

func (s *LocalStore) pathFor(uri string) (string, error) {
	key, ok := strings.CutPrefix(uri, localURIScheme)
	if !ok || key == "" || strings.ContainsAny(key, "/\\") {
		return "", fmt.Errorf("%w: malformed blob uri %q", utils.ErrInvalidInput, uri)
	}
	return filepath.Join(s.baseDir, key), nil
}

// contextReader aborts a copy when the request context is cancelled, so a
// client abort mid-upload does not leave the copy running.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
