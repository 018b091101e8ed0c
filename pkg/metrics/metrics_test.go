// Copyright (c) 2026 Jeremy Hahn
// Copyright (c) 2026 Automate The Things, LLC
//
// This file is part of go-securetoken.
//
// go-securetoken is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOperation(t *testing.T) {
	Enable()

	before := testutil.ToFloat64(OperationsTotal.WithLabelValues(OpSign, "HS256", StatusSuccess))
	RecordOperation(OpSign, "HS256", StatusSuccess, 0.001)
	after := testutil.ToFloat64(OperationsTotal.WithLabelValues(OpSign, "HS256", StatusSuccess))

	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestRecordValidationFailure(t *testing.T) {
	Enable()

	before := testutil.ToFloat64(ValidationFailuresTotal.WithLabelValues(ReasonExpired))
	RecordValidationFailure(ReasonExpired)
	after := testutil.ToFloat64(ValidationFailuresTotal.WithLabelValues(ReasonExpired))

	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	Enable()

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "200"))
	RecordHTTPRequest("POST", "200", 0.05)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "200"))

	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestDisabledMetricsAreNoOps(t *testing.T) {
	Disable()
	defer Enable()

	before := testutil.ToFloat64(OperationsTotal.WithLabelValues(OpValidate, "RS256", StatusError))
	RecordOperation(OpValidate, "RS256", StatusError, 0.5)
	RecordValidationFailure(ReasonReplay)
	RecordHTTPRequest("POST", "200", 0.1)
	after := testutil.ToFloat64(OperationsTotal.WithLabelValues(OpValidate, "RS256", StatusError))

	if after != before {
		t.Errorf("expected counter unchanged while disabled, got %v -> %v", before, after)
	}
	if IsEnabled() {
		t.Error("expected metrics to report disabled")
	}
}

func TestEnableDisableToggle(t *testing.T) {
	Enable()
	if !IsEnabled() {
		t.Error("expected enabled after Enable")
	}
	Disable()
	if IsEnabled() {
		t.Error("expected disabled after Disable")
	}
	Enable()
}
