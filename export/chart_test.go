// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/humaidq/carewheels/clinical"
)

func TestWaveformForIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()

	ecg := &clinical.ECGData{HeartRate: clinical.Float(75), RiskLevel: clinical.ECGRiskAbnormal}

	a, err := WaveformFor(ecg, "visit-1")
	if err != nil {
		t.Fatalf("WaveformFor failed: %v", err)
	}

	b, _ := WaveformFor(ecg, "visit-1")

	if !slices.Equal(slices.Collect(a.Samples()), slices.Collect(b.Samples())) {
		t.Fatal("expected identical traces for the same seed")
	}
}

func TestWaveformForRequiresHeartRate(t *testing.T) {
	t.Parallel()

	for _, ecg := range []*clinical.ECGData{nil, {}, {HeartRate: clinical.Float(0)}} {
		if _, err := WaveformFor(ecg, "x"); !errors.Is(err, ErrNoHeartRate) {
			t.Fatalf("expected ErrNoHeartRate, got %v", err)
		}
	}
}

func TestECGChartFor(t *testing.T) {
	t.Parallel()

	html, err := ECGChartFor(&clinical.ECGData{HeartRate: clinical.Float(60), RiskLevel: clinical.ECGRiskCritical}, "v")
	if err != nil {
		t.Fatalf("ECGChartFor failed: %v", err)
	}

	if !strings.Contains(html, "echarts") || !strings.Contains(html, "#dc2626") {
		t.Fatal("expected echarts markup with the critical colour")
	}
}

func TestQRCode(t *testing.T) {
	t.Parallel()

	png, err := QRCode(VisitLink("https://clinic.example/", "abc"))
	if err != nil {
		t.Fatalf("QRCode failed: %v", err)
	}

	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Fatal("expected PNG output")
	}

	if got := VisitLink("https://clinic.example/", "abc"); got != "https://clinic.example/visits/abc/load" {
		t.Fatalf("unexpected link %q", got)
	}

	if got := VisitLink("", "abc"); got != "carewheels:visit:abc" {
		t.Fatalf("unexpected bare link %q", got)
	}
}
