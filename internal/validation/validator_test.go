// Synergy - Trust-Aware Team Matching and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synergy

package validation

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

type sample struct {
	UserID   string  `json:"user_id" validate:"required"`
	Kind     string  `json:"kind" validate:"oneof=online app physical"`
	Fit      float64 `koanf:"psych_fit" validate:"unit"`
	Attempts int     `json:"attempts" validate:"gte=0,lte=10"`
}

func TestGetValidator_Singleton(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]interface{}, 10)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = GetValidator()
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(got); i++ {
		if got[i] != got[0] {
			t.Fatal("GetValidator returned different instances")
		}
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		in         sample
		wantFields []string
	}{
		{
			name: "valid",
			in:   sample{UserID: "u1", Kind: "physical", Fit: 0.5, Attempts: 3},
		},
		{
			name:       "missing user",
			in:         sample{Kind: "app", Fit: 0.1},
			wantFields: []string{"user_id"},
		},
		{
			name:       "unknown kind and fit out of range",
			in:         sample{UserID: "u1", Kind: "carrier-pigeon", Fit: 1.5},
			wantFields: []string{"kind", "psych_fit"},
		},
		{
			name:       "attempts above max",
			in:         sample{UserID: "u1", Kind: "online", Attempts: 11},
			wantFields: []string{"attempts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.in)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}

			var ve *RequestValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ValidateStruct() = %T, want *RequestValidationError", err)
			}
			if len(ve.Errors()) != len(tt.wantFields) {
				t.Errorf("got %d errors (%v), want %d", len(ve.Errors()), err, len(tt.wantFields))
			}
			for _, f := range tt.wantFields {
				if !ve.HasField(f) {
					t.Errorf("missing error for field %q in %v", f, err)
				}
			}
		})
	}
}

func TestValidateStruct_Messages(t *testing.T) {
	err := ValidateStruct(&sample{UserID: "u1", Kind: "app", Fit: -0.1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "psych_fit must be within [0, 1]") {
		t.Errorf("Error() = %q", err.Error())
	}
}
