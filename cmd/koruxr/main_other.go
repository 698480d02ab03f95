//go:build !android

package main

import (
	log "github.com/sirupsen/logrus"
)

func main() {
	log.Fatal("koruxr needs an Android activity; use xrinfo to inspect a desktop runtime")
}
