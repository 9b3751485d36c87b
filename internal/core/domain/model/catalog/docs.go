// Package catalog contains the Product, Category, and Offer aggregates.
//
// All three are soft-deletable: they carry a kernel.TrashState instead of
// being physically removed, which powers the trash/restore/purge subsystem.
// Products additionally own stock bookkeeping and the low-stock condition the
// fulfillment core re-checks on every stock-affecting mutation.
package catalog
