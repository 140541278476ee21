/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package export

import (
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"

	"github.com/humaidq/carewheels/visit"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/report.html"))

type htmlReport struct {
	Report   Report
	QRCode   string
	ECGChart htmltemplate.HTML
}

// HTML renders a standalone report page with the ECG trace and a QR code.
func HTML(w io.Writer, v visit.Visit, o Options) error {
	data := htmlReport{Report: Build(v, o.now())}

	qr, err := QRCode(VisitLink(o.BaseURL, v.ID))
	if err != nil {
		return err
	}

	data.QRCode = base64.StdEncoding.EncodeToString(qr)

	chart, err := ECGChartFor(v.ECG, v.ID)

	switch {
	case errors.Is(err, ErrNoHeartRate):
	case err != nil:
		logger.Warn("Rendering report without ECG chart", "visit_id", v.ID, "error", err)
	default:
		data.ECGChart = htmltemplate.HTML(chart)
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}

	logger.Debug("Wrote HTML report", "visit_id", v.ID)

	return nil
}

// Write renders v in format f.
func Write(w io.Writer, f Format, v visit.Visit, o Options) error {
	switch f {
	case FormatPDF:
		return PDF(w, v, o)
	case FormatCSV:
		return CSV(w, v, o.now())
	case FormatHTML:
		return HTML(w, v, o)
	}

	return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}
