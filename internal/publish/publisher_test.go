// internal/publish/publisher_test.go
package publish

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tamzrod/veeprom/internal/slot"
	"github.com/tamzrod/veeprom/internal/snapshot"
)

// ---- fake register client ----

type fakeRegisterClient struct {
	mu     sync.Mutex
	fail   bool
	writes []writeCall
}

type writeCall struct {
	unitID uint8
	addr   uint16
	regs   []uint16
}

func (f *fakeRegisterClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errors.New("fake: write failed")
	}
	f.writes = append(f.writes, writeCall{
		unitID: unitID,
		addr:   addr,
		regs:   append([]uint16(nil), regs...),
	})
	return nil
}

func (f *fakeRegisterClient) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

// ---- tests ----

func snap(cfgValue byte) snapshot.Snapshot {
	return snapshot.Snapshot{
		Values: map[slot.Slot]byte{slot.Configuration: cfgValue},
	}
}

func TestFullBlockOnFirstPublishOnly(t *testing.T) {
	cli := &fakeRegisterClient{}
	p := New(Target{UnitID: 3, BaseRegister: 100, DeviceName: "DEV-01"}, cli)

	if err := p.Publish(snap(1)); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}

	if len(cli.writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(cli.writes))
	}
	first := cli.writes[0]
	if first.addr != 100 || first.unitID != 3 {
		t.Fatalf("unexpected target: addr=%d unit=%d", first.addr, first.unitID)
	}
	if len(first.regs) != snapshot.RegistersPerBlock {
		t.Fatalf("expected full block (%d regs), got %d", snapshot.RegistersPerBlock, len(first.regs))
	}

	name := snapshot.EncodeDeviceName("DEV-01")
	for i := range name {
		if first.regs[snapshot.RegDeviceNameStart+i] != name[i] {
			t.Fatalf("device name reg %d mismatch", i)
		}
	}

	// unchanged snapshot: nothing to write
	if err := p.Publish(snap(1)); err != nil {
		t.Fatalf("second publish failed: %v", err)
	}
	if len(cli.writes) != 1 {
		t.Fatalf("unchanged snapshot should not write, got %d writes", len(cli.writes))
	}
}

func TestIncrementalWritesChangedRegisters(t *testing.T) {
	cli := &fakeRegisterClient{}
	p := New(Target{BaseRegister: 10}, cli)

	if err := p.Publish(snap(1)); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	if err := p.Publish(snap(2)); err != nil {
		t.Fatalf("second publish failed: %v", err)
	}

	// value register + crc register
	incr := cli.writes[1:]
	if len(incr) != 2 {
		t.Fatalf("expected 2 incremental writes, got %d", len(incr))
	}
	if incr[0].addr != 10+snapshot.RegValuesStart || incr[0].regs[0] != 2 {
		t.Fatalf("value write: addr=%d regs=%v", incr[0].addr, incr[0].regs)
	}
	if incr[1].addr != 10+snapshot.RegCRC {
		t.Fatalf("crc write: addr=%d", incr[1].addr)
	}
	for _, w := range incr {
		if len(w.regs) != 1 {
			t.Fatalf("incremental write must be single register, got %d", len(w.regs))
		}
	}
}

func TestFailureForcesFullReassert(t *testing.T) {
	cli := &fakeRegisterClient{}
	p := New(Target{}, cli)

	if err := p.Publish(snap(1)); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}

	cli.fail = true
	if err := p.Publish(snap(2)); err == nil {
		t.Fatalf("expected error, got nil")
	}

	cli.fail = false
	if err := p.Publish(snap(2)); err != nil {
		t.Fatalf("recovery publish failed: %v", err)
	}

	last := cli.writes[len(cli.writes)-1]
	if len(last.regs) != snapshot.RegistersPerBlock {
		t.Fatalf("expected full block after failure, got %d regs", len(last.regs))
	}
}

func TestRunPublishesImmediatelyAndStops(t *testing.T) {
	cli := &fakeRegisterClient{}
	p := New(Target{}, cli)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	var mu sync.Mutex
	value := byte(0)
	take := func() snapshot.Snapshot {
		mu.Lock()
		defer mu.Unlock()
		value++
		return snap(value)
	}

	go func() {
		p.Run(ctx, 5*time.Millisecond, take)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for cli.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}

	if cli.count() < 3 {
		t.Fatalf("expected at least 3 writes, got %d", cli.count())
	}
}

func TestPublishWithoutClient(t *testing.T) {
	p := New(Target{}, nil)
	if err := p.Publish(snap(1)); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
