// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kbotics

package powercan

import (
	"encoding/binary"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// Field extraction must survive arbitrary identifiers, including the
// reserved high bits being set by other bus participants.
func TestFuzzDecodeID(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		addr := uint8(rng.Intn(256))
		code := uint16(rng.Intn(0x2000))
		raw := uint32(addr) | uint32(code)<<8 | uint32(rng.Intn(256))<<21

		gotAddr, gotCode := DecodeID(raw)
		if gotAddr != addr || gotCode != code {
			t.Fatalf("DecodeID(0x%08X) = (0x%02X, 0x%04X), want (0x%02X, 0x%04X)",
				raw, gotAddr, gotCode, addr, code)
		}
	}
}

func TestFuzzControlRoundTrip(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for i := 0; i < rounds; i++ {
		settings := ControlSettings{
			Fan:         rng.Intn(2) == 1,
			Precharge:   rng.Intn(2) == 1,
			MotorOutput: rng.Intn(2) == 1,
			MainControl: rng.Intn(2) == 1,
			Restart:     rng.Intn(2) == 1,
			ClearFaults: rng.Intn(2) == 1,
			AutoReport:  rng.Intn(2) == 1,
			Reserved:    rng.Intn(2) == 1,
		}

		data := EncodeControl(settings)
		if len(data) != 8 {
			t.Fatalf("EncodeControl produced %d bytes", len(data))
		}
		for j, flag := range []bool{
			settings.Fan, settings.Precharge, settings.MotorOutput, settings.MainControl,
			settings.Restart, settings.ClearFaults, settings.AutoReport, settings.Reserved,
		} {
			want := byte(0)
			if flag {
				want = 1
			}
			if data[j] != want {
				t.Fatalf("byte %d = %d for %+v", j, data[j], settings)
			}
		}
	}
}

// Random 8-byte payloads must always decode, and the scaled fields must
// match a direct big-endian reading.
func TestFuzzDecodePayloads(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	payload := make([]byte, 8)
	for i := 0; i < rounds; i++ {
		rng.Read(payload)

		s, err := DecodeStatus(payload)
		if err != nil {
			t.Fatalf("DecodeStatus(% X): %v", payload, err)
		}
		if want := float64(binary.BigEndian.Uint16(payload[0:2])) / 100; s.BatteryVoltage != want {
			t.Fatalf("BatteryVoltage = %v, want %v", s.BatteryVoltage, want)
		}
		if s.FaultStatus != binary.BigEndian.Uint16(payload[6:8]) {
			t.Fatalf("FaultStatus = %d from % X", s.FaultStatus, payload)
		}

		p, err := DecodePower(payload)
		if err != nil {
			t.Fatalf("DecodePower(% X): %v", payload, err)
		}
		if want := float64(binary.BigEndian.Uint16(payload[6:8])) / 100; p.RightArm != want {
			t.Fatalf("RightArm = %v, want %v", p.RightArm, want)
		}
	}
}
