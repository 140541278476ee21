/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/humaidq/carewheels/clinical"
	"github.com/humaidq/carewheels/visit"
)

// Options controls rendered reports.
type Options struct {
	// Now stamps the report. Zero means time.Now.
	Now time.Time
	// BaseURL is the public server address encoded in the QR code.
	BaseURL string
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}

	return o.Now
}

const (
	pdfMargin    = 20.0
	pdfLineH     = 5.0
	pdfLabelW    = 45.0
	pdfQRSize    = 28.0
	pdfQRImageID = "visit-qr"
)

type rgb struct{ r, g, b int }

var (
	colorHeading  = rgb{0, 102, 204}
	colorText     = rgb{0, 0, 0}
	colorMuted    = rgb{128, 128, 128}
	colorCritical = rgb{220, 38, 38}
	colorWarning  = rgb{217, 119, 6}
	colorNormal   = rgb{22, 163, 74}
)

func statusColor(s clinical.Status) rgb {
	switch s {
	case clinical.StatusCritical:
		return colorCritical
	case clinical.StatusWarning:
		return colorWarning
	case clinical.StatusNormal:
		return colorNormal
	}

	return colorText
}

// PDF renders the visit as an A4 document.
func PDF(w io.Writer, v visit.Visit, o Options) error {
	now := o.now()
	r := Build(v, now)

	qr, err := QRCode(VisitLink(o.BaseURL, v.ID))
	if err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*pdfMargin

	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, 25)
	pdf.SetTitle(r.Title, true)
	pdf.SetAuthor(ReportFooter, true)
	pdf.SetSubject(r.PatientName, true)
	pdf.SetCreationDate(now)
	pdf.AliasNbPages("")

	pdf.RegisterImageOptionsReader(pdfQRImageID, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))

	setColor := func(c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		setColor(colorMuted)
		pdf.CellFormat(0, 4, tr(r.Footer), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 4, tr(fmt.Sprintf("Report generated on: %s  |  Page %d/{nb}",
			now.Format(time.DateTime), pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.ImageOptions(pdfQRImageID, pageW-pdfMargin-pdfQRSize, pdfMargin-8, pdfQRSize, pdfQRSize,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "B", 20)
	setColor(colorHeading)
	pdf.CellFormat(contentW-pdfQRSize, 10, tr(r.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	setColor(colorMuted)
	pdf.CellFormat(contentW-pdfQRSize, pdfLineH, tr("Visit "+r.VisitID), "", 1, "L", false, 0, "")
	pdf.Ln(pdfQRSize - 12)

	for _, s := range r.Sections {
		heading := colorHeading
		if s.Alert {
			heading = colorCritical
		}

		pdf.SetFont("Helvetica", "B", 14)
		setColor(heading)
		pdf.CellFormat(0, 8, tr(s.Title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)

		for _, row := range s.Rows {
			setColor(colorText)
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(pdfLabelW, pdfLineH, tr(row.Label+":"), "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)

			value := row.Value
			if row.Note != "" {
				value += " (" + row.Note + ")"
			}

			setColor(statusColor(row.Status))
			pdf.MultiCell(contentW-pdfLabelW, pdfLineH, tr(value), "", "L", false)
		}

		for _, item := range s.Items {
			if s.Alert {
				setColor(colorCritical)
			} else {
				setColor(colorText)
			}

			pdf.MultiCell(contentW, pdfLineH, tr("- "+item), "", "L", false)
		}

		pdf.Ln(4)

		if pdf.GetY() > pageH-40 {
			pdf.AddPage()
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf report: %w", err)
	}

	logger.Debug("Wrote PDF report", "visit_id", v.ID, "pages", pdf.PageNo())

	return nil
}
