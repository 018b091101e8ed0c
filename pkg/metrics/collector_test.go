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
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewResourceCollector(t *testing.T) {
	collector := NewResourceCollector(context.Background(), time.Second)
	defer collector.Stop()

	if collector.interval != time.Second {
		t.Errorf("expected interval %v, got %v", time.Second, collector.interval)
	}
	if collector.started.IsZero() {
		t.Error("expected started time to be set")
	}
}

func TestResourceCollectorStart(t *testing.T) {
	Enable()
	Goroutines.Set(0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := NewResourceCollector(ctx, 50*time.Millisecond)
	go collector.Start()
	defer collector.Stop()

	time.Sleep(100 * time.Millisecond)

	if testutil.ToFloat64(Goroutines) == 0 {
		t.Error("expected goroutine gauge to be updated")
	}
	if testutil.ToFloat64(ServerUptime) == 0 {
		t.Error("expected uptime gauge to be updated")
	}
}

func TestCollectOnce(t *testing.T) {
	Enable()
	MemoryAllocBytes.Set(0)

	CollectOnce()

	if testutil.ToFloat64(MemoryAllocBytes) == 0 {
		t.Error("expected memory gauge to be updated")
	}
}

func TestCollectOnceDisabled(t *testing.T) {
	Disable()
	defer Enable()

	Goroutines.Set(-1)
	CollectOnce()

	if testutil.ToFloat64(Goroutines) != -1 {
		t.Error("expected gauges untouched while disabled")
	}
}

func TestStartResourceCollectorStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	collector := StartResourceCollector(ctx, 10*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)

	// Stop after cancel must not panic.
	collector.Stop()
}
