// -*- mode: Go; indent-tabs-mode: t -*-
//
// SPDX-License-Identifier: Apache-2.0

package embedded

import (
	"context"
	"testing"
	"time"
)

func TestDebugEchoRecognizes(t *testing.T) {
	d := NewDebugEcho()
	if d.Recognizes(map[string]string{}) {
		t.Error("expected no recognition without a 'descriptions' key")
	}
	if !d.Recognizes(map[string]string{"descriptions": "cam1,cam2"}) {
		t.Error("expected recognition with a 'descriptions' key")
	}
}

func TestDebugEchoDiscoverEmitsConfiguredDevices(t *testing.T) {
	d := NewDebugEcho()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := d.Discover(ctx, map[string]string{"descriptions": "cam1, cam2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case resp := <-ch:
		if len(resp.Devices) != 2 {
			t.Fatalf("expected 2 devices, got %d", len(resp.Devices))
		}
		if resp.Devices[0].ID != "cam1" || resp.Devices[1].ID != "cam2" {
			t.Errorf("unexpected device ids: %+v", resp.Devices)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first discovery response")
	}
}

func TestParseDescriptions(t *testing.T) {
	got := parseDescriptions(" cam1 ,, cam2,cam3 ")
	want := []string{"cam1", "cam2", "cam3"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
