// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeAfterFiresOnAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := Fake(start)

	ch := clock.After(time.Minute)
	select {
	case <-ch:
		t.Fatal("After fired before Advance")
	default:
	}

	clock.Advance(30 * time.Second)
	select {
	case <-ch:
		t.Fatal("After fired before its deadline")
	default:
	}

	clock.Advance(30 * time.Second)
	select {
	case fired := <-ch:
		if !fired.Equal(start.Add(time.Minute)) {
			t.Errorf("fired at %v, want %v", fired, start.Add(time.Minute))
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestFakeAfterNonPositive(t *testing.T) {
	clock := Fake(time.Unix(0, 0))
	select {
	case <-clock.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestFakeNowTracksAdvance(t *testing.T) {
	start := time.Unix(1000, 0)
	clock := Fake(start)
	clock.Advance(3 * time.Second)
	if got := clock.Now(); !got.Equal(start.Add(3 * time.Second)) {
		t.Errorf("Now = %v, want %v", got, start.Add(3*time.Second))
	}
}
