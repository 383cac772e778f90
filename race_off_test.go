//go:build !race

package linkmap

const raceEnabled = false
