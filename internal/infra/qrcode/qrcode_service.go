// Package qrcode renders the QR codes printed on sale receipts.
package qrcode

import (
	"encoding/json"
	"fmt"
	"strings"

	"posledger/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// ReceiptQRData is the payload encoded into a receipt QR code. Scanning it
// leads to the hosted receipt lookup for the bill number.
type ReceiptQRData struct {
	BillNumber string `json:"bill_number"`
	Type       string `json:"type"`
	LookupURL  string `json:"lookup_url,omitempty"`
}

// NewReceiptQRService creates a new receipt QR service instance
func NewReceiptQRService(size int, errorCorrectionLevel, baseURL string) service.ReceiptQRService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// GenerateReceiptQR generates the PNG QR code for a bill number.
func (s *qrcodeService) GenerateReceiptQR(billNumber string) ([]byte, error) {
	data := ReceiptQRData{
		BillNumber: billNumber,
		Type:       "receipt",
	}
	if s.baseURL != "" {
		data.LookupURL = s.baseURL + "/receipts/" + billNumber
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}
