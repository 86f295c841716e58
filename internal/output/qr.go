package output

import (
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mdp/qrterminal/v3"
	"rsc.io/qr"

	walleterr "github.com/mrz1836/cwallet/pkg/errors"
)

// QRConfig configures QR code rendering.
type QRConfig struct {
	// Level is the error correction level.
	Level qr.Level
	// QuietZone is the number of empty blocks around the QR code.
	QuietZone int
	// HalfBlocks uses half-height blocks for a more compact display.
	HalfBlocks bool
}

// DefaultQRConfig returns defaults for terminal QR rendering.
func DefaultQRConfig() QRConfig {
	return QRConfig{
		Level:      qr.L,
		QuietZone:  1,
		HalfBlocks: true,
	}
}

// CanRenderQR checks if the output writer is a terminal suitable for QR rendering.
func CanRenderQR(w io.Writer) bool {
	return IsTerminal(w)
}

// RenderAddressQR draws address as a QR code when w is a terminal and does
// nothing otherwise. Only public addresses are accepted: anything that is
// not a 20-byte hex address is refused so a key can never end up on screen
// as a scannable code.
func RenderAddressQR(w io.Writer, address string, cfg QRConfig) error {
	if !common.IsHexAddress(address) {
		return walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
			"qr": "only wallet addresses can be rendered",
		})
	}
	if !CanRenderQR(w) {
		return nil
	}

	qrterminal.GenerateWithConfig(address, qrterminal.Config{
		Level:          cfg.Level,
		Writer:         w,
		QuietZone:      cfg.QuietZone,
		HalfBlocks:     cfg.HalfBlocks,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
	})
	return nil
}
