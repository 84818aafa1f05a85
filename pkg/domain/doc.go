// Package domain contains the core domain entities and types used by the
// intake service: scan codes and events, catalog entries, resolution results,
// terminals and camera devices. These types are intentionally free of
// infrastructure concerns so they can be shared across packages.
package domain
