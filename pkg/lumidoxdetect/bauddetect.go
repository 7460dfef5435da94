// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lumidoxdetect

import (
	"log"
	"sort"
	"time"

	"github.com/lumidox/lumidox2ctl/pkg/lumidoxproto"
)

// BaudDetectionConfig tunes the set of baud rates tried and how hard
// each is tested.
type BaudDetectionConfig struct {
	TestBaudRates        []int
	AttemptsPerRate      int
	ComprehensiveTesting bool
	TestTimeout          time.Duration
}

// DefaultBaudDetectionConfig is the controller's documented rate plus
// the other rates its firmware is known to support.
func DefaultBaudDetectionConfig() BaudDetectionConfig {
	return BaudDetectionConfig{
		TestBaudRates:        []int{19200, 9600, 38400, 57600, 115200},
		AttemptsPerRate:      2,
		ComprehensiveTesting: false,
		TestTimeout:          1500 * time.Millisecond,
	}
}

// BaudCandidate is one tested baud rate and its quality score
// (0..100).
type BaudCandidate struct {
	BaudRate     int
	QualityScore int
}

// orderedRates returns cfg.TestBaudRates with duplicates dropped and
// the controller's default (19200) moved to the front regardless of
// where it appears in the configured list.
func orderedRates(rates []int) []int {
	seen := make(map[int]bool, len(rates))
	ordered := make([]int, 0, len(rates))

	if contains(rates, lumidoxproto.DefaultBaudRate) {
		ordered = append(ordered, lumidoxproto.DefaultBaudRate)
		seen[lumidoxproto.DefaultBaudRate] = true
	}
	for _, r := range rates {
		if seen[r] {
			continue
		}
		seen[r] = true
		ordered = append(ordered, r)
	}
	return ordered
}

func contains(rates []int, target int) bool {
	for _, r := range rates {
		if r == target {
			return true
		}
	}
	return false
}

// testRate opens a transport at rate and runs attempts repetitions of
// enter_remote(OutputOff) + firmware read. Success requires every
// attempt to return Ok with an identical firmware value; the quality
// score starts at 100*successes/attempts and loses up to 20 points for
// attempts whose round trip exceeds one second.
func testRate(open PortOpener, portName string, rate int, cfg BaudDetectionConfig) int {
	transport, err := open(portName, rate)
	if err != nil {
		return 0
	}
	defer transport.Close()

	engine := lumidoxproto.NewEngine(transport, lumidoxproto.EngineConfig{Attempts: 1, Backoff: 50 * time.Millisecond})

	successes := 0
	slowAttempts := 0
	var firstFW uint16
	haveFirst := false

	for i := 0; i < cfg.AttemptsPerRate; i++ {
		start := time.Now()

		enter, err := engine.Execute(lumidoxproto.Command{Code: lumidoxproto.CmdRemoteStateWrite, Data: lumidoxproto.RemoteWriteOutputOff}, cfg.TestTimeout)
		if err != nil || enter.Kind != lumidoxproto.Ok {
			continue
		}

		fw, err := engine.Execute(lumidoxproto.Command{Code: lumidoxproto.CmdFirmwareRevision}, cfg.TestTimeout)
		elapsed := time.Since(start)

		if err != nil || fw.Kind != lumidoxproto.Ok {
			continue
		}
		if !haveFirst {
			firstFW = fw.Data
			haveFirst = true
		} else if fw.Data != firstFW {
			continue
		}

		successes++
		if elapsed > time.Second {
			slowAttempts++
		}
	}

	if cfg.AttemptsPerRate == 0 {
		return 0
	}

	score := 100 * successes / cfg.AttemptsPerRate
	penalty := slowAttempts * 20 / cfg.AttemptsPerRate
	score -= penalty
	if score < 0 {
		score = 0
	}
	return score
}

// DetectBaud tries candidate baud rates against portName, 19200
// first, in the order orderedRates establishes. When
// ComprehensiveTesting is false it stops at the first rate scoring at
// least 80 and returns only the rates it tried; otherwise it tests
// every configured rate and returns the full ranked list.
func DetectBaud(open PortOpener, portName string, cfg BaudDetectionConfig) []BaudCandidate {
	rates := orderedRates(cfg.TestBaudRates)
	results := make([]BaudCandidate, 0, len(rates))

	for _, rate := range rates {
		log.Printf("[detect] testing %s at %d baud", portName, rate)
		score := testRate(open, portName, rate, cfg)
		results = append(results, BaudCandidate{BaudRate: rate, QualityScore: score})

		if !cfg.ComprehensiveTesting && score >= 80 {
			break
		}
	}

	if cfg.ComprehensiveTesting {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].QualityScore > results[j].QualityScore
		})
	}
	return results
}
