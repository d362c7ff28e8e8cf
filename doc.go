// Package starchart renders stylized instrument-panel star charts.
//
// A fully-resolved SceneDescriptor — star-field distributions, projected
// rings with ticks and curved labels, HUD readouts, post-processing
// parameters and a seed — goes in; a deterministic linear-light image
// plus named intermediate layers comes out. The same descriptor and seed
// always produce byte-identical PNG output.
//
// The pipeline renders at ssaa× resolution, accumulates everything
// additively in linear light (stars, ring core, ring glow, labels), runs
// the cinematic post chain (bloom, optional anamorphic streak, chromatic
// aberration, vignette, grain, ACES tone mapping) and box-downsamples
// back to the requested resolution.
//
// Scene descriptors are plain structs; the config subpackage loads and
// validates them from YAML. Text shaping lives in the text subpackage.
package starchart
