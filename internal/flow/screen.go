package flow

// Screen identifies where the user is in the wallet flow.
type Screen int

// Screens, in the order a new user meets them.
const (
	ScreenLogin Screen = iota
	ScreenCreateWallet
	ScreenImportWallet
	ScreenVerifyMnemonic
	ScreenWalletSummary
	ScreenHome
)

// String returns the screen name.
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenCreateWallet:
		return "create-wallet"
	case ScreenImportWallet:
		return "import-wallet"
	case ScreenVerifyMnemonic:
		return "verify-mnemonic"
	case ScreenWalletSummary:
		return "wallet-summary"
	case ScreenHome:
		return "home"
	default:
		return "unknown"
	}
}
