// Command xrinfo reports what the OpenXR runtime and, optionally, the
// Vulkan driver of this machine offer.
package main

import (
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("xrinfo failed")
	}
}
