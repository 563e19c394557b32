// Copyright (c) 2026, The langpop Authors. All rights reserved.
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

package server

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/serializer"
)

// HTTPStatusFromCode maps an error code to an HTTP status.
func HTTPStatusFromCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case apperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code apperrors.ErrorCode) bool {
	switch code {
	case apperrors.ErrCodeTimeout,
		apperrors.ErrCodeUnavailable,
		apperrors.ErrCodeRateLimitExceeded,
		apperrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// WriteError writes an ErrorResponse with the request id of r.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code apperrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr writes err as an ErrorResponse. Structured errors keep
// their code, message and context; anything else is reported as INTERNAL
// with fallbackMessage.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error,
	fallbackMessage string, details map[string]any) {

	code := apperrors.ErrCodeInternal
	message := fallbackMessage
	var extra map[string]any

	var se *apperrors.StructuredError
	if stderrors.As(err, &se) {
		code = se.Code
		message = se.Message
		extra = se.Context
		if se.Cause != nil {
			extra = mergeDetails(extra, map[string]any{"error": se.Cause.Error()})
		}
	} else if err != nil {
		extra = map[string]any{"error": err.Error()}
	}

	WriteError(w, r, HTTPStatusFromCode(code), code, message,
		retryableFromCode(code), mergeDetails(extra, details))
}
