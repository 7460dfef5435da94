// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package main

import (
	"fmt"
	"log"

	"github.com/lumidox/lumidox2ctl/pkg/lumidoxdetect"
	"github.com/lumidox/lumidox2ctl/pkg/lumidoxdevice"
	"github.com/lumidox/lumidox2ctl/pkg/lumidoxproto"
)

// openSession opens a Session per the persistent connection flags:
// either an explicit --port/--baud pair, or --auto to run detection.
func openSession() (*lumidoxdevice.Session, error) {
	if autoConnect {
		return openAutoSession()
	}
	if portName == "" {
		return nil, fmt.Errorf("either --port or --auto must be specified")
	}

	baud := baudRate
	if baud == 0 {
		baud = lumidoxproto.DefaultBaudRate
	}

	transport, err := lumidoxproto.OpenSerialTransport(portName, baud)
	if err != nil {
		return nil, err
	}

	session := lumidoxdevice.Open(transport)
	if err := session.EnterRemote(lumidoxdevice.ModeOutputOff); err != nil {
		session.Close()
		return nil, fmt.Errorf("enter remote mode on %s: %w", portName, err)
	}
	return session, nil
}

func openAutoSession() (*lumidoxdevice.Session, error) {
	cfg := lumidoxdetect.DefaultAutoConnectConfig()
	switch {
	case quick:
		cfg = lumidoxdetect.QuickConfig()
	case thorough:
		cfg = lumidoxdetect.ThoroughConfig()
	}
	cfg.Verbose = verbose

	var cache lumidoxdetect.Cache
	if cachePath != "" {
		cfg.EnableCaching = true
		cache = lumidoxdetect.NewFileCache(cachePath)
	} else {
		cfg.EnableCaching = false
	}

	session, result, err := lumidoxdetect.AutoConnect(lumidoxdetect.SystemEnumerator{}, lumidoxdetect.OpenSystemPort, cache, cfg)
	if err != nil {
		return nil, err
	}

	log.Printf("[lumidoxctl] connected on %s @ %d baud (model %s, serial %s)", result.Port, result.Baud, result.Identity.Model, result.Identity.Serial)
	return session, nil
}
