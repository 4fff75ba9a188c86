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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/openmetahub/artifact-registry-service/config"
	"github.com/openmetahub/artifact-registry-service/utils"
)

// HTTPStore talks to a remote blob store over HTTP. Idempotent calls (Get,
// Delete, InUse) go through a retrying client; Put streams the payload in a
// single attempt because the body cannot be replayed without buffering.
type HTTPStore struct {
	baseURL  string
	client   *retryablehttp.Client
	disabled bool
}

// NewHTTPStore builds a store client for the configured base URL.
func NewHTTPStore(cfg config.BlobStoreConfig) *HTTPStore {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = slog.Default()
	return &HTTPStore{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		client:   client,
		disabled: cfg.Disabled,
	}
}

type putResponse struct {
	URI      string `json:"uri"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
}

// Put streams the payload to the remote store in one attempt.
func (s *HTTPStore) Put(ctx context.Context, data io.Reader, declaredSize int64) (BlobLocation, error) {
	if s.disabled {
		return BlobLocation{}, utils.ErrStoreDisabled
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/blobs", data)
	if err != nil {
		return BlobLocation{}, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if declaredSize >= 0 {
		req.ContentLength = declaredSize
	}
	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return BlobLocation{}, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	if err := storeStatusError(resp.StatusCode); err != nil {
		return BlobLocation{}, err
	}
	var body putResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return BlobLocation{}, fmt.Errorf("%w: malformed store response: %v", utils.ErrStorageUnavailable, err)
	}
	return BlobLocation{URI: body.URI, Size: body.Size, Checksum: body.Checksum}, nil
}

// Get opens the remote blob for streaming.
func (s *HTTPStore) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.blobURL(uri), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	if err := storeStatusError(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// Delete removes a remote blob.
func (s *HTTPStore) Delete(ctx context.Context, uri string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodDelete, s.blobURL(uri), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()
	return storeStatusError(resp.StatusCode)
}

// InUse asks the remote store whether the blob is still referenced.
func (s *HTTPStore) InUse(ctx context.Context, uri string) (bool, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.blobURL(uri)+"/in-use", nil)
	if err != nil {
		return false, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", utils.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()
	if err := storeStatusError(resp.StatusCode); err != nil {
		return false, err
	}
	var body struct {
		InUse bool `json:"in_use"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("%w: malformed store response: %v", utils.ErrStorageUnavailable, err)
	}
	return body.InUse, nil
}

func (s *HTTPStore) blobURL(uri string) string {
	return s.baseURL + "/blobs/" + url.PathEscape(uri)
}

func storeStatusError(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return utils.ErrArtifactNotFound
	case status == http.StatusConflict:
		return utils.ErrBlobInUse
	case status == http.StatusRequestEntityTooLarge:
		return utils.ErrBlobTooLarge
	case status == http.StatusInsufficientStorage:
		return utils.ErrQuotaExceeded
	case status == http.StatusForbidden:
		return utils.ErrStorageUnavailable
	case status == http.StatusGone:
		return utils.ErrStoreDisabled
	default:
		return fmt.Errorf("%w: store returned status %d", utils.ErrStorageUnavailable, status)
	}
}
