package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBank_Width(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		id     ID
		width  uint
		digits int
	}){
		{AC, 16, 4},
		{BR, 20, 5},
		{DR, 16, 4},
		{AR, 12, 3},
		{IP, 12, 3},
		{IR, 16, 4},
		{STATE, 16, 4},
		{KEY, 16, 4},
		{MIP, 8, 2},
		{MI, 16, 4},
	}

	for _, entry := range table {
		assert.Equal(entry.width, entry.id.Width(), entry.id.String())
		assert.Equal(entry.digits, entry.id.Digits(), entry.id.String())
	}
}

func TestBank_WriteMasks(t *testing.T) {
	assert := assert.New(t)

	bank := &Bank{}

	bank.Write(MIP, 0x1ff)
	assert.Equal(uint32(0xff), bank.Read(MIP))

	bank.Write(AR, 0xabcd)
	assert.Equal(uint32(0xbcd), bank.Read(AR))

	bank.Write(BR, 0xfffffff)
	assert.Equal(uint32(0xfffff), bank.Read(BR))

	bank.Write(AC, 0x12345)
	assert.Equal(uint32(0x2345), bank.Read(AC))
}

func TestBank_Independent(t *testing.T) {
	assert := assert.New(t)

	bank := &Bank{}
	for n := range COUNT {
		bank.Write(ID(n), uint32(n+1))
	}

	for id, value := range bank.All() {
		assert.Equal(uint32(id)+1, value, id.String())
	}
}

func TestBank_Invalid(t *testing.T) {
	assert := assert.New(t)

	bank := &Bank{}
	bank.Write(ID(-1), 0x1234)
	bank.Write(ID(COUNT), 0x1234)

	assert.Equal(uint32(0), bank.Read(ID(-1)))
	assert.Equal(uint32(0), bank.Read(ID(COUNT)))
	assert.Equal(uint32(0), ID(COUNT).Mask())
	assert.Equal("ID(10)", ID(COUNT).String())
}

func TestBank_Reset(t *testing.T) {
	assert := assert.New(t)

	bank := &Bank{}
	bank.Write(AC, 0x1234)
	bank.Write(MIP, 0x12)
	bank.Reset()

	for id, value := range bank.All() {
		assert.Equal(uint32(0), value, id.String())
	}
}

func TestBank_String(t *testing.T) {
	assert := assert.New(t)

	bank := &Bank{}
	bank.Write(AC, 0xbeef)
	bank.Write(MIP, 0xa8)

	text := bank.String()
	assert.Contains(text, "   ac: BEEF\n")
	assert.Contains(text, "  mip: A8\n")
	assert.Contains(text, "   br: 00000\n")
}
