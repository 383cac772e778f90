//go:build race

package linkmap

// Under race detector, stress tests run fewer iterations.
const raceEnabled = true
