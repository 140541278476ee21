/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package export

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/humaidq/carewheels/clinical"
)

// WaveformFor returns the display trace for an ECG record. The noise is
// seeded from seed so a report renders the same trace every time.
func WaveformFor(e *clinical.ECGData, seed string) (clinical.Waveform, error) {
	if e == nil || e.HeartRate == nil || *e.HeartRate <= 0 {
		return clinical.Waveform{}, ErrNoHeartRate
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))

	return clinical.Waveform{
		HeartRate: *e.HeartRate,
		Risk:      e.RiskLevel,
		Rand:      clinical.NewSeededRand(h.Sum64()),
	}, nil
}

// ECGChart renders the waveform as an embeddable echarts line chart.
func ECGChart(w clinical.Waveform, title string) (string, error) {
	if w.Len() == 0 {
		return "", ErrNoHeartRate
	}

	xAxis := make([]string, 0, w.Len())
	yData := make([]opts.LineData, 0, w.Len())

	for ms, amp := range w.Points() {
		xAxis = append(xAxis, strconv.FormatFloat(ms, 'f', 0, 64))
		yData = append(yData, opts.LineData{Value: amp})
	}

	color := "#16a34a"

	switch w.Risk {
	case clinical.ECGRiskCritical:
		color = "#dc2626"
	case clinical.ECGRiskAbnormal:
		color = "#d97706"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "100%",
			Height: "260px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(false),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "ms",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "mV",
			Min:  -0.6,
			Max:  1.6,
		}),
	)

	line.SetXAxis(xAxis).
		AddSeries("ECG", yData).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: opts.Bool(false),
			}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: color,
				Width: 1.5,
			}),
		)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render ecg chart: %w", err)
	}

	return buf.String(), nil
}

// ECGChartFor renders the chart for an ECG record, seeded by seed.
func ECGChartFor(e *clinical.ECGData, seed string) (string, error) {
	w, err := WaveformFor(e, seed)
	if err != nil {
		return "", err
	}

	return ECGChart(w, fmt.Sprintf("ECG trace (%s bpm)", number(*e.HeartRate)))
}

// LiveWaveform returns a trace with fresh noise on every pass.
func LiveWaveform(e *clinical.ECGData) (clinical.Waveform, error) {
	w, err := WaveformFor(e, "")
	if err != nil {
		return w, err
	}

	w.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	return w, nil
}
