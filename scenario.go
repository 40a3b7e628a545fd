package kernel

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Scenario describes a genesis state and a list of blocks to execute.
type Scenario struct {
	Genesis map[AccountID]Balance `yaml:"genesis"`
	Blocks  []ScenarioBlock       `yaml:"blocks"`
}

// ScenarioBlock is a block in a scenario.
type ScenarioBlock struct {
	Number     BlockNumber         `yaml:"number"`
	Extrinsics []ScenarioExtrinsic `yaml:"extrinsics"`
}

// ScenarioExtrinsic is an extrinsic in a scenario. The arguments are decoded
// according to the named module and call.
type ScenarioExtrinsic struct {
	Caller AccountID `yaml:"caller"`
	Module string    `yaml:"module"`
	Call   string    `yaml:"call"`
	Args   yaml.Node `yaml:"args"`
}

// LoadScenario will parse a YAML encoded scenario.
func LoadScenario(data []byte) (*Scenario, error) {
	// decode scenario
	var scenario Scenario
	err := yaml.Unmarshal(data, &scenario)
	if err != nil {
		return nil, errors.Wrap(err, "scenario")
	}

	return &scenario, nil
}

// Seed will set the genesis balances on the provided runtime.
func (s *Scenario) Seed(r *Runtime) {
	for who, balance := range s.Genesis {
		r.Balances.SetBalance(who, balance)
	}
}

// Build will decode and return the blocks of the scenario.
func (s *Scenario) Build() ([]Block, error) {
	// prepare list
	list := make([]Block, 0, len(s.Blocks))

	for i, sb := range s.Blocks {
		// prepare block
		block := Block{
			Header:     Header{BlockNumber: sb.Number},
			Extrinsics: make([]Extrinsic, 0, len(sb.Extrinsics)),
		}

		// decode extrinsics
		for j, se := range sb.Extrinsics {
			args := se.Args
			call, err := DecodeCall(se.Module, se.Call, func(v interface{}) error {
				// missing arguments decode to zero values
				if args.Kind == 0 {
					return nil
				}

				return args.Decode(v)
			})
			if err != nil {
				return nil, errors.Wrapf(err, "block %d, extrinsic %d", i, j)
			}

			block.Extrinsics = append(block.Extrinsics, Extrinsic{
				Caller: se.Caller,
				Call:   call,
			})
		}

		list = append(list, block)
	}

	return list, nil
}
