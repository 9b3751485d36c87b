// Package notification contains the persisted in-app notification model.
// Rows are the durable side channel of the fulfillment core; push delivery is
// layered on top and may fail without affecting them.
package notification
