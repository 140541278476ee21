/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package export

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// VisitLink returns the address a report's QR code points at. Without a
// base URL the bare visit reference is encoded instead.
func VisitLink(baseURL, visitID string) string {
	if baseURL == "" {
		return "carewheels:visit:" + visitID
	}

	return strings.TrimRight(baseURL, "/") + "/visits/" + visitID + "/load"
}

// QRCode renders content as a PNG QR code.
func QRCode(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}

	return png, nil
}
