// Package z80test runs a compiled image on a real Z80 emulator so
// tests can assert on register and memory state after execution
// instead of trusting the generated machine code by inspection alone.
// It wraps github.com/remogatto/z80 with a flat 64 KiB memory and a
// port bank satisfying z80.MemoryAccessor/z80.PortAccessor.
package z80test

import (
	"fmt"

	"github.com/remogatto/z80"
)

// Memory is a flat, unprotected 64 KiB address space.
type Memory struct {
	data [65536]byte

	// cpu is set by New once the Z80 is constructed so the
	// Contend* callbacks below can advance Tstates. z80.DoOpcode
	// has no other source of cycle accounting: it attributes every
	// instruction's timing to these memory-contention hooks, so
	// leaving them as no-ops would leave Tstates frozen at 0 and
	// Run/RunCycles would spin forever.
	cpu *z80.Z80
}

func (m *Memory) Read(address uint16) byte  { return m.data[address] }
func (m *Memory) ReadByte(address uint16) byte { return m.data[address] }
func (m *Memory) WriteByte(address uint16, value byte) { m.data[address] = value }
func (m *Memory) ReadByteInternal(address uint16) byte { return m.data[address] }
func (m *Memory) WriteByteInternal(address uint16, value byte) { m.data[address] = value }
func (m *Memory) Write(address uint16, value byte, protectROM bool) { m.data[address] = value }
func (m *Memory) Data() []byte { return m.data[:] }

func (m *Memory) ContendRead(address uint16, time int)        { m.cpu.Tstates += time }
func (m *Memory) ContendReadNoMreq(address uint16, time int)   { m.cpu.Tstates += time }
func (m *Memory) ContendReadNoMreq_loop(address uint16, time int, c uint) {
	m.cpu.Tstates += time * int(c)
}
func (m *Memory) ContendWriteNoMreq(address uint16, time int) { m.cpu.Tstates += time }
func (m *Memory) ContendWriteNoMreq_loop(address uint16, time int, c uint) {
	m.cpu.Tstates += time * int(c)
}

// Ports simulates the two ports the compiled image's runtime actually
// drives: the 6850 ACIA control/status and data registers. TDRE is
// modeled as always ready; RDRF is set only while the Input queue, which
// a test preloads to stand in for keyboard input, still holds bytes.
type Ports struct {
	Output []byte
	Input  []byte
}

const (
	portAciaCtrl = 0x80
	portAciaData = 0x81

	statusTDRE = 0x02
	statusRDRF = 0x01
)

func (p *Ports) ReadPort(address uint16) byte {
	switch address & 0xFF {
	case portAciaCtrl:
		status := byte(statusTDRE)
		if len(p.Input) > 0 {
			status |= statusRDRF
		}
		return status
	case portAciaData:
		if len(p.Input) == 0 {
			return 0
		}
		b := p.Input[0]
		p.Input = p.Input[1:]
		return b
	default:
		return 0xFF
	}
}

func (p *Ports) WritePort(address uint16, b byte) {
	if address&0xFF == portAciaData {
		p.Output = append(p.Output, b)
	}
}

func (p *Ports) ReadPortInternal(address uint16, contend bool) byte  { return p.ReadPort(address) }
func (p *Ports) WritePortInternal(address uint16, b byte, contend bool) { p.WritePort(address, b) }
func (p *Ports) ContendPortPreio(address uint16)                     {}
func (p *Ports) ContendPortPostio(address uint16)                    {}

// Machine is a ready-to-run Z80 loaded with a compiled image.
type Machine struct {
	CPU    *z80.Z80
	Memory *Memory
	Ports  *Ports
	cycles int
}

// MaxCycles bounds Run so a miscompiled image that never halts cannot
// hang a test suite.
const MaxCycles = 50_000_000

// New loads image at address 0x0000 and returns a Machine with PC and
// SP reset to the cold boot vector.
func New(image []byte) *Machine {
	mem := &Memory{}
	copy(mem.data[:], image)
	ports := &Ports{}
	cpu := z80.NewZ80(mem, ports)
	mem.cpu = cpu

	m := &Machine{CPU: cpu, Memory: mem, Ports: ports}
	m.CPU.Reset()
	return m
}

// Run executes instructions until the CPU halts (HALT with interrupts
// disabled, which is how genHalt's tight loop presents itself) or
// MaxCycles is exceeded.
func (m *Machine) Run() error {
	for {
		if m.CPU.Halted {
			return nil
		}
		before := m.CPU.Tstates
		m.CPU.DoOpcode()
		m.cycles += int(m.CPU.Tstates - before)
		if m.cycles > MaxCycles {
			return fmt.Errorf("execution exceeded %d cycles without halting", MaxCycles)
		}
	}
}

// RunCycles executes instructions until at least n cycles have
// elapsed or the CPU halts, for tests that need to observe
// in-progress state (a partial display refresh, a pending key) rather
// than run to completion.
func (m *Machine) RunCycles(n int) error {
	target := m.cycles + n
	for m.cycles < target {
		if m.CPU.Halted {
			return nil
		}
		before := m.CPU.Tstates
		m.CPU.DoOpcode()
		m.cycles += int(m.CPU.Tstates - before)
	}
	return nil
}

// ReadByte returns the byte at a memory address.
func (m *Machine) ReadByte(addr uint16) byte { return m.Memory.data[addr] }

// ReadWord returns the little-endian word at a memory address.
func (m *Machine) ReadWord(addr uint16) uint16 {
	return uint16(m.Memory.data[addr]) | uint16(m.Memory.data[addr+1])<<8
}
