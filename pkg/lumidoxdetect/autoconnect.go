// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxdetect

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lumidox/lumidox2ctl/pkg/lumidoxdevice"
)

// AutoConnectConfig bounds a full auto-connect attempt.
type AutoConnectConfig struct {
	PortConfig       PortDetectionConfig
	BaudConfig       BaudDetectionConfig
	Verbose          bool
	EnableCaching    bool
	MaxDetectionTime time.Duration
}

// DefaultAutoConnectConfig allows a generous 30-second budget and
// caches the result.
func DefaultAutoConnectConfig() AutoConnectConfig {
	return AutoConnectConfig{
		PortConfig:       DefaultPortDetectionConfig(),
		BaudConfig:       DefaultBaudDetectionConfig(),
		EnableCaching:    true,
		MaxDetectionTime: 30 * time.Second,
	}
}

// QuickConfig trims the baud pass for the common case of a
// known-good, already-plugged-in controller: port detection is left at
// its defaults, each baud rate gets one attempt with a shorter
// timeout, baud testing is not comprehensive, and the overall budget
// is short.
func QuickConfig() AutoConnectConfig {
	cfg := DefaultAutoConnectConfig()
	cfg.MaxDetectionTime = 8 * time.Second
	cfg.BaudConfig.AttemptsPerRate = 1
	cfg.BaudConfig.TestTimeout = 750 * time.Millisecond
	return cfg
}

// ThoroughConfig widens the baud pass for an unfamiliar or flaky
// setup: port detection is left at its defaults, every baud rate is
// tested (three attempts each) and ranked rather than stopping at the
// first good one, and the overall budget is generous.
func ThoroughConfig() AutoConnectConfig {
	cfg := DefaultAutoConnectConfig()
	cfg.MaxDetectionTime = 60 * time.Second
	cfg.BaudConfig.ComprehensiveTesting = true
	cfg.BaudConfig.AttemptsPerRate = 3
	return cfg
}

// AutoConnectResult describes the connection AutoConnect produced.
type AutoConnectResult struct {
	Port     string
	Baud     int
	Identity lumidoxdevice.DeviceIdentity
}

type candidateAttempt struct {
	port      string
	bestBaud  int
	bestScore int
	reason    string
}

// AutoConnect finds a working port and baud rate and returns a
// connected Session. If cfg.EnableCaching is set and cache has a
// record, that record is tried first with a single probe before
// falling back to full detection.
func AutoConnect(enumerator PortEnumerator, open PortOpener, cache Cache, cfg AutoConnectConfig) (*lumidoxdevice.Session, AutoConnectResult, error) {
	deadline := time.Now().Add(cfg.MaxDetectionTime)

	if cfg.EnableCaching && cache != nil {
		if record, err := cache.Load(); err == nil && record != nil {
			if cfg.Verbose {
				log.Printf("[detect] trying cached connection %s @ %d baud", record.PortName, record.BaudRate)
			}
			if session, ok := probeCachedConnection(open, record, cfg.PortConfig.IdentificationTimeout); ok {
				result := AutoConnectResult{Port: record.PortName, Baud: record.BaudRate, Identity: record.LastIdentity}
				persistRecord(cache, result, cfg.Verbose)
				return session, result, nil
			}
		}
	}

	candidates, err := DetectPorts(enumerator, open, cfg.PortConfig)
	if err != nil {
		return nil, AutoConnectResult{}, fmt.Errorf("lumidoxdetect: enumerate ports: %w", err)
	}

	attempts := make([]candidateAttempt, 0, len(candidates))

	for _, c := range candidates {
		if time.Now().After(deadline) {
			break
		}

		remaining := time.Until(deadline)
		bauds := DetectBaud(open, c.PortName, clampBaudBudget(cfg.BaudConfig, remaining))

		best := bestBaudCandidate(bauds)
		attempt := candidateAttempt{port: c.PortName}
		if best == nil {
			attempt.reason = "no baud rate produced a usable response"
			attempts = append(attempts, attempt)
			continue
		}
		attempt.bestBaud = best.BaudRate
		attempt.bestScore = best.QualityScore

		if best.QualityScore < 50 {
			attempt.reason = fmt.Sprintf("best baud %d scored only %d", best.BaudRate, best.QualityScore)
			attempts = append(attempts, attempt)
			continue
		}

		session, identity, ok := tryConnect(open, c.PortName, best.BaudRate)
		if !ok {
			attempt.reason = "session open succeeded but identity read failed"
			attempts = append(attempts, attempt)
			continue
		}

		result := AutoConnectResult{Port: c.PortName, Baud: best.BaudRate, Identity: identity}
		if cfg.EnableCaching && cache != nil {
			persistRecord(cache, result, cfg.Verbose)
		}
		return session, result, nil
	}

	return nil, AutoConnectResult{}, fmt.Errorf("lumidoxdetect: no candidate yielded a session: %s", describeAttempts(attempts))
}

func bestBaudCandidate(candidates []BaudCandidate) *BaudCandidate {
	var best *BaudCandidate
	for i := range candidates {
		if best == nil || candidates[i].QualityScore > best.QualityScore {
			best = &candidates[i]
		}
	}
	return best
}

func clampBaudBudget(cfg BaudDetectionConfig, remaining time.Duration) BaudDetectionConfig {
	perRateBudget := remaining / time.Duration(max(1, len(cfg.TestBaudRates)))
	if cfg.TestTimeout > perRateBudget && perRateBudget > 0 {
		cfg.TestTimeout = perRateBudget
	}
	return cfg
}

// tryConnect opens a Session at port/baud and confirms it by reading
// identity.
func tryConnect(open PortOpener, port string, baud int) (*lumidoxdevice.Session, lumidoxdevice.DeviceIdentity, bool) {
	transport, err := open(port, baud)
	if err != nil {
		return nil, lumidoxdevice.DeviceIdentity{}, false
	}

	session := lumidoxdevice.Open(transport)
	if err := session.EnterRemote(lumidoxdevice.ModeOutputOff); err != nil {
		session.Close()
		return nil, lumidoxdevice.DeviceIdentity{}, false
	}
	identity, err := session.ReadIdentity()
	if err != nil {
		session.Close()
		return nil, lumidoxdevice.DeviceIdentity{}, false
	}

	return session, *identity, true
}

// probeCachedConnection opens a Session at record's port/baud and
// confirms it with a single enter-remote plus a single firmware-
// revision read, rather than the full identity read tryConnect
// performs. The cached record's own identity is reused for the
// result on success, since the point of the cache is to skip
// re-reading it.
func probeCachedConnection(open PortOpener, record *ConnectionRecord, timeout time.Duration) (*lumidoxdevice.Session, bool) {
	transport, err := open(record.PortName, record.BaudRate)
	if err != nil {
		return nil, false
	}

	session := lumidoxdevice.Open(transport)
	if timeout > 0 {
		session.SetTimeout(timeout)
	}
	if err := session.EnterRemote(lumidoxdevice.ModeOutputOff); err != nil {
		session.Close()
		return nil, false
	}
	if err := session.Ping(); err != nil {
		session.Close()
		return nil, false
	}

	return session, true
}

func persistRecord(cache Cache, result AutoConnectResult, verbose bool) {
	record := ConnectionRecord{
		PortName:        result.Port,
		BaudRate:        result.Baud,
		LastIdentity:    result.Identity,
		LastSuccessTime: time.Now(),
	}
	if err := cache.Store(record); err != nil && verbose {
		log.Printf("[detect] failed to persist connection cache: %v", err)
	}
}

func describeAttempts(attempts []candidateAttempt) string {
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		if a.bestBaud != 0 {
			parts = append(parts, fmt.Sprintf("%s (best baud %d, score %d): %s", a.port, a.bestBaud, a.bestScore, a.reason))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", a.port, a.reason))
		}
	}
	if len(parts) == 0 {
		return "no ports were candidates"
	}
	return strings.Join(parts, "; ")
}
