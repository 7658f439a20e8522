// Command erode runs terrain erosion headless: single runs that dump the map
// after each iteration, seed sweeps and parameter listings.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("erode failed")
		os.Exit(1)
	}
}
