package ports

import "context"

// AssetStore is the external object storage holding product images.
// The permanent-purge path deletes every referenced asset through it before
// removing the owning row.
type AssetStore interface {
	Delete(ctx context.Context, assetURL string) error
}
