// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package eventprocessor

import "errors"

// ErrInvalidConfig is returned when configuration is invalid.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrMalformedEvent marks a payload that can never be applied. Such messages
// are acked and dropped instead of redelivered.
var ErrMalformedEvent = errors.New("malformed event")

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// ErrTrustUnavailable is returned when the trust service reports no aggregate.
var ErrTrustUnavailable = errors.New("trust aggregate unavailable")
