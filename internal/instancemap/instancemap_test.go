// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

package instancemap

import (
	"testing"
	"time"
)

func TestUpsertContainsRemove(t *testing.T) {
	m := New()
	if m.Contains("c1-abcdef") {
		t.Fatal("expected empty map")
	}

	m.Upsert("c1-abcdef", NewInstanceInfo())
	if !m.Contains("c1-abcdef") {
		t.Fatal("expected instance to be present after upsert")
	}

	m.Remove("c1-abcdef")
	if m.Contains("c1-abcdef") {
		t.Fatal("expected instance to be gone after remove")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := New()
	m.Upsert("a", NewInstanceInfo())

	snap := m.Snapshot()
	m.Upsert("b", NewInstanceInfo())

	if _, ok := snap["b"]; ok {
		t.Error("snapshot must not observe later mutations")
	}
	if _, ok := snap["a"]; !ok {
		t.Error("snapshot should contain entries present at capture time")
	}
}

func TestSetConnectivityAfterRemoveIsNoOp(t *testing.T) {
	m := New()
	m.Upsert("a", NewInstanceInfo())
	m.Remove("a")

	m.SetConnectivity("a", Offline) // must not panic or resurrect the entry
	if m.Contains("a") {
		t.Error("expected entry to remain removed")
	}
}

func TestListAndWatchNotify(t *testing.T) {
	m := New()
	info := NewInstanceInfo()
	m.Upsert("a", info)

	sub := info.Notify.Subscribe()
	m.ListAndWatchNotify("a", Continue)

	select {
	case kind := <-sub:
		if kind != Continue {
			t.Errorf("expected Continue, got %v", kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
	}
}
