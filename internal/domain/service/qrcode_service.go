package service

// ReceiptQRService renders the QR code printed on sale receipts.
type ReceiptQRService interface {
	// GenerateReceiptQR returns a PNG QR code encoding the bill number.
	GenerateReceiptQR(billNumber string) ([]byte, error)
}
