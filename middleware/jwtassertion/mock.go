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

package jwtassertion

import (
	"context"
	"net/http"
	"testing"
)

// MockSubject is the token subject injected by NewMockMiddleware.
const MockSubject = "test-user@openmetahub.io"

// NewMockMiddleware returns a middleware that injects a fixed set of token
// claims without validating anything. Tests use it in place of
// JWTAuthMiddleware.
func NewMockMiddleware(t *testing.T) Middleware {
	t.Helper()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &TokenClaims{
				Subject: MockSubject,
				Scope:   "artifacts:read artifacts:write",
				Issuer:  "https://test.openmetahub.io/oauth2/token",
			}
			ctx := context.WithValue(r.Context(), assertionTokenClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
