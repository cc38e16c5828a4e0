package qrcode

import (
	"fmt"

	"konv/config"
	"konv/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code renderer for tracking numbers.
func NewQRCodeService(cfg *config.Config) service.TrackingCodeRenderer {
	size := defaultSize
	levelName := ""
	if cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		levelName = cfg.QRCode.ErrorCorrectionLevel
	}

	var level qrcode.RecoveryLevel
	switch levelName {
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
	}
}

// RenderPNG returns a PNG image encoding the tracking number. Customers scan
// it at pickup points instead of reading the number out.
func (s *qrcodeService) RenderPNG(trackingNumber string) ([]byte, error) {
	qrCode, err := qrcode.New(trackingNumber, s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}
