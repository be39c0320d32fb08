package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/bcomp/assembler"
	"github.com/ezrec/bcomp/microcode"
)

func TestWriteListing(t *testing.T) {
	assert := assert.New(t)

	prog, err := assembler.Compile("ORG 20\nX: WORD ?\nBEGIN: ADD (X)\nHLT")
	require.NoError(t, err)

	var buf bytes.Buffer
	writeListing(&buf, prog)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal([]string{
		"020 0000  WORD 0000    ; 2",
		"021 4820  ADD (020)    ; 3",
		"022 F000  HLT          ; 4",
		"; argument X at 020",
	}, lines)
}

func TestWriteMicroListing(t *testing.T) {
	assert := assert.New(t)

	prog, err := microcode.Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	writeMicroListing(&buf, prog)

	assert.Equal(len(prog.Opcodes), strings.Count(buf.String(), "\n"))
	assert.True(strings.HasPrefix(buf.String(), "00 "))
}
