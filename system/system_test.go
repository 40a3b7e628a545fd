package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitSystem(t *testing.T) {
	m := New[string, uint64, uint32]()
	assert.Equal(t, uint64(0), m.BlockNumber())
	assert.Equal(t, uint32(0), m.Nonce("alice"))
}

func TestBlockNumber(t *testing.T) {
	m := New[string, uint64, uint32]()

	m.IncrementBlockNumber()
	assert.Equal(t, uint64(1), m.BlockNumber())

	m.IncrementBlockNumber()
	m.IncrementBlockNumber()
	assert.Equal(t, uint64(3), m.BlockNumber())
}

func TestBlockNumberOverflow(t *testing.T) {
	m := New[string, uint8, uint32]()
	for i := 0; i < 255; i++ {
		m.IncrementBlockNumber()
	}
	assert.Equal(t, uint8(255), m.BlockNumber())

	assert.PanicsWithValue(t, "system: block number overflow", func() {
		m.IncrementBlockNumber()
	})
	assert.Equal(t, uint8(255), m.BlockNumber())
}

func TestNonce(t *testing.T) {
	m := New[string, uint64, uint32]()

	for i := 0; i < 3; i++ {
		err := m.IncrementNonce("alice")
		assert.NoError(t, err)
	}

	err := m.IncrementNonce("bob")
	assert.NoError(t, err)

	assert.Equal(t, uint32(3), m.Nonce("alice"))
	assert.Equal(t, uint32(1), m.Nonce("bob"))
	assert.Equal(t, uint32(0), m.Nonce("charlie"))
}

func TestNonceOverflow(t *testing.T) {
	m := New[string, uint64, uint8]()
	for i := 0; i < 255; i++ {
		err := m.IncrementNonce("alice")
		assert.NoError(t, err)
	}

	err := m.IncrementNonce("alice")
	assert.Equal(t, ErrNonceOverflow, err)
	assert.Equal(t, uint8(255), m.Nonce("alice"))
}

func TestScan(t *testing.T) {
	m := New[string, uint64, uint32]()
	assert.NoError(t, m.IncrementNonce("bob"))
	assert.NoError(t, m.IncrementNonce("alice"))
	assert.NoError(t, m.IncrementNonce("alice"))

	nonces := map[string]uint32{}
	var order []string
	m.Scan(func(account string, nonce uint32) bool {
		order = append(order, account)
		nonces[account] = nonce
		return true
	})
	assert.Equal(t, []string{"alice", "bob"}, order)
	assert.Equal(t, map[string]uint32{"alice": 2, "bob": 1}, nonces)
}
