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
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmetahub/artifact-registry-service/config"
	"github.com/openmetahub/artifact-registry-service/utils"
)

func newLocalStore(t *testing.T, maxBytes int64) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(config.BlobStoreConfig{Path: t.TempDir(), MaxBlobSizeBytes: maxBytes})
	require.NoError(t, err)
	return s
}

func TestLocalStorePut(t *testing.T) {
	ctx := context.Background()

	t.Run("stores bytes with size and checksum", func(t *testing.T) {
		s := newLocalStore(t, 1024)
		payload := []byte("hello blob")
		loc, err := s.Put(ctx, bytes.NewReader(payload), int64(len(payload)))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(loc.URI, "local://"))
		assert.EqualValues(t, len(payload), loc.Size)

		sum := md5.Sum(payload)
		assert.Equal(t, hex.EncodeToString(sum[:]), loc.Checksum)
	})

	t.Run("declared size mismatch is rejected", func(t *testing.T) {
		s := newLocalStore(t, 1024)
		_, err := s.Put(ctx, strings.NewReader("abc"), 10)
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("unknown declared size is accepted", func(t *testing.T) {
		s := newLocalStore(t, 1024)
		loc, err := s.Put(ctx, strings.NewReader("abc"), -1)
		require.NoError(t, err)
		assert.EqualValues(t, 3, loc.Size)
	})

	t.Run("payload over the quota is rejected", func(t *testing.T) {
		s := newLocalStore(t, 4)
		_, err := s.Put(ctx, strings.NewReader("too large"), -1)
		assert.ErrorIs(t, err, utils.ErrBlobTooLarge)
	})

	t.Run("declared size over the quota fails fast", func(t *testing.T) {
		s := newLocalStore(t, 4)
		_, err := s.Put(ctx, strings.NewReader(""), 100)
		assert.ErrorIs(t, err, utils.ErrBlobTooLarge)
	})

	t.Run("payload exactly at the quota passes", func(t *testing.T) {
		s := newLocalStore(t, 4)
		loc, err := s.Put(ctx, strings.NewReader("1234"), 4)
		require.NoError(t, err)
		assert.EqualValues(t, 4, loc.Size)
	})

	t.Run("disabled store rejects writes", func(t *testing.T) {
		s, err := NewLocalStore(config.BlobStoreConfig{Path: t.TempDir(), Disabled: true})
		require.NoError(t, err)
		_, err = s.Put(ctx, strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, utils.ErrStoreDisabled)
	})

	t.Run("cancelled context aborts the write", func(t *testing.T) {
		s := newLocalStore(t, 1024)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.Put(cancelled, strings.NewReader("x"), 1)
		assert.Error(t, err)
	})
}

func TestLocalStoreGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newLocalStore(t, 1024)

	payload := []byte("round trip")
	loc, err := s.Put(ctx, bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)

	t.Run("get returns the stored bytes", func(t *testing.T) {
		r, err := s.Get(ctx, loc.URI)
		require.NoError(t, err)
		defer r.Close()
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("malformed uri is rejected", func(t *testing.T) {
		_, err := s.Get(ctx, "local://../escape")
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("delete removes the blob", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, loc.URI))
		_, err := s.Get(ctx, loc.URI)
		assert.Error(t, err)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, loc.URI))
	})
}
