// Package intake turns raw terminal input into resolved catalog lookups.
//
// Three components cooperate per terminal:
//   - Input classifies keystroke streams into manual submits and
//     keyboard-wedge scanner bursts using inter-event timing.
//   - Dispatcher resolves every scan event against the catalog, one at a
//     time, and fans the result out to the cart and an audio cue.
//   - OpticalAdapter drives a camera from permission to a single decoded code.
//
// Terminal wires one of each to a cart and Manager keeps terminals by id.
package intake
