//go:build mage

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/bookshelf-qa/internal/container"
)

// LibreTranslate starts a local LibreTranslate server for the libretranslate
// backend. $LT_PORT sets the host port (default 5000) and $LT_LANGUAGES a
// comma-separated list of languages to load (default all).
func LibreTranslate() error {
	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}

	port := 5000
	if v := os.Getenv("LT_PORT"); v != "" {
		if port, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid LT_PORT %q: %w", v, err)
		}
	}
	var langs []string
	if v := os.Getenv("LT_LANGUAGES"); v != "" {
		langs = strings.Split(v, ",")
	}

	svc := container.LibreTranslate(port, langs)
	if err := rt.Start(svc); err != nil {
		return err
	}
	fmt.Printf("LibreTranslate running in %s as %s on http://localhost:%d\n", rt.Name(), svc.Name, port)
	fmt.Println("Set translation.backend: libretranslate and translation.base_url accordingly.")
	return nil
}

// LibreTranslateStop stops the local LibreTranslate server.
func LibreTranslateStop() error {
	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}
	return rt.Stop(container.LibreTranslate(0, nil).Name)
}
