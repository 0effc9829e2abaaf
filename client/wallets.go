package client

import (
	// Go Internal Packages
	"context"
	"net/http"

	// Local Packages
	models "paybot-console/models"
)

// ListWalletTransfers fetches every incoming transfer of the monitored deposit wallets,
// across all networks.
func (c *Client) ListWalletTransfers(ctx context.Context) ([]models.WalletTransfer, error) {
	var transfers []models.WalletTransfer
	err := c.sendJSON(ctx, request{
		endpoint: "wallet_transfers.list",
		method:   http.MethodGet,
		path:     "/api/wallet-transactions",
		slow:     true,
	}, &transfers)
	if err != nil {
		return nil, err
	}
	return transfers, nil
}
