package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_Main(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem.WriteMain(0x010, 0x00ab)
	assert.Equal(uint16(0x00ab), mem.ReadMain(0x010))

	// Wraps at the store size.
	mem.WriteMain(MAIN_SIZE+0x20, 0x1234)
	assert.Equal(uint16(0x1234), mem.ReadMain(0x20))
}

func TestMemory_Micro(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem.WriteMicro(0xa8, 0x8123)
	assert.Equal(uint16(0x8123), mem.ReadMicro(0xa8))
	assert.Equal(uint16(0x8123), mem.ReadMicro(0x1a8))
}

func TestMemory_Watch(t *testing.T) {
	assert := assert.New(t)

	var seen []uint16
	mem := &Memory{
		Watch: func(addr uint16, value uint16) { seen = append(seen, addr) },
	}

	mem.WriteMain(0x10, 1)
	mem.WriteMain(0x1010, 2)
	mem.LoadMain(0x20, []uint16{1, 2, 3})

	assert.Equal([]uint16{0x10, 0x10}, seen)
}

func TestMemory_Load(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem.LoadMain(MAIN_SIZE-1, []uint16{0xaaaa, 0xbbbb})
	assert.Equal(uint16(0xaaaa), mem.Main[MAIN_SIZE-1])
	assert.Equal(uint16(0xbbbb), mem.Main[0])

	mem.Micro[0x80] = 0xffff
	mem.LoadMicro([]uint16{1, 2})
	assert.Equal(uint16(1), mem.Micro[0])
	assert.Equal(uint16(2), mem.Micro[1])
	assert.Equal(uint16(0), mem.Micro[0x80])

	mem.Reset()
	assert.Equal(uint16(0), mem.Main[0])
	assert.Equal(uint16(1), mem.Micro[0])
}

func TestMemory_MainRange(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem.LoadMain(MAIN_SIZE-1, []uint16{7, 8, 9})

	var addrs, values []uint16
	for addr, value := range mem.MainRange(MAIN_SIZE-1, 3) {
		addrs = append(addrs, addr)
		values = append(values, value)
	}

	assert.Equal([]uint16{0xfff, 0, 1}, addrs)
	assert.Equal([]uint16{7, 8, 9}, values)
}
