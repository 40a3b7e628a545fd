package kernel

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/256dpi/kernel/support"
)

func TestScenarioDemo(t *testing.T) {
	data, err := os.ReadFile("testdata/demo.yaml")
	assert.NoError(t, err)

	scenario, err := LoadScenario(data)
	assert.NoError(t, err)
	assert.Equal(t, map[AccountID]Balance{"alice": 100}, scenario.Genesis)

	blocks, err := scenario.Build()
	assert.NoError(t, err)
	assert.Equal(t, []Block{
		{
			Header: Header{BlockNumber: 1},
			Extrinsics: []Extrinsic{
				{Caller: "alice", Call: Transfer("bob", 20)},
				{Caller: "alice", Call: Transfer("charlie", 30)},
			},
		},
		{
			Header: Header{BlockNumber: 2},
			Extrinsics: []Extrinsic{
				{Caller: "alice", Call: CreateClaim("my_document")},
				{Caller: "bob", Call: CreateClaim("Bobs Doc")},
			},
		},
	}, blocks)

	r := NewRuntime(RuntimeConfig{})
	scenario.Seed(r)

	for _, block := range blocks {
		receipt, err := r.ExecuteBlock(block)
		assert.NoError(t, err)
		assert.Equal(t, 0, receipt.Failures())
	}

	assert.Equal(t, State{
		BlockNumber: 2,
		Nonces:      map[AccountID]Nonce{"alice": 3, "bob": 1},
		Balances:    map[AccountID]Balance{"alice": 50, "bob": 20, "charlie": 30},
		Claims:      map[ClaimKey]AccountID{"my_document": "alice", "Bobs Doc": "bob"},
	}, r.State())
}

func TestScenarioErrors(t *testing.T) {
	_, err := LoadScenario([]byte("blocks: 42"))
	assert.Error(t, err)

	scenario, err := LoadScenario([]byte(`
blocks:
  - number: 1
    extrinsics:
      - caller: alice
        module: balances
        call: burn
`))
	assert.NoError(t, err)

	_, err = scenario.Build()
	assert.ErrorIs(t, err, support.ErrUnknownCall)
	assert.Equal(t, "block 0, extrinsic 0: balances/burn: unknown call", err.Error())

	scenario, err = LoadScenario([]byte(`
blocks:
  - number: 1
    extrinsics:
      - caller: alice
        module: balances
        call: transfer
        args: {to: bob, amount: lots}
`))
	assert.NoError(t, err)

	_, err = scenario.Build()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "balances/transfer")
}

func TestScenarioMissingArgs(t *testing.T) {
	scenario, err := LoadScenario([]byte(`
blocks:
  - number: 1
    extrinsics:
      - caller: alice
        module: claims
        call: revoke_claim
`))
	assert.NoError(t, err)

	blocks, err := scenario.Build()
	assert.NoError(t, err)
	assert.Equal(t, RevokeClaim(""), blocks[0].Extrinsics[0].Call)
}
