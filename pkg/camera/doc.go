// Package camera provides the production camera source used by the optical
// scan adapter: network cameras exposing a still-image snapshot URL are polled
// at a fixed frame rate and every frame is run through a barcode decoder.
package camera
