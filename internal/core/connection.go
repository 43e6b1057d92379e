package core

import "time"

// Provider identifies the external service a connection points at.
type Provider string

const (
	ProviderGoogleDrive Provider = "google_drive"
	ProviderDropbox     Provider = "dropbox"
	ProviderOneDrive    Provider = "onedrive"
	ProviderSynology    Provider = "synology"
	ProviderCloudflare  Provider = "cloudflare"
	ProviderCustomAPI   Provider = "custom_api"
)

// ValidProvider reports whether p is a known provider.
func ValidProvider(p Provider) bool {
	switch p {
	case ProviderGoogleDrive, ProviderDropbox, ProviderOneDrive, ProviderSynology, ProviderCloudflare, ProviderCustomAPI:
		return true
	}
	return false
}

// ConnectionStatus is the recorded outcome of the external auth flow.
// The actual OAuth handshake happens outside the core; only the
// resulting transitions are tracked here.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnected    ConnectionStatus = "connected"
	StatusError        ConnectionStatus = "error"
)

// Connection tracks identity and status of one external service link.
// AccountID is present only while Status is connected.
type Connection struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      Provider         `json:"type"`
	Status    ConnectionStatus `json:"status"`
	AccountID string           `json:"account_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
