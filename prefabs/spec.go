package prefabs

import (
	"fmt"
	"os"

	"github.com/milk9111/locomotion/component"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// CharacterSpec describes a controllable character: its collider and its
// movement tuning.
type CharacterSpec struct {
	Name     string                   `yaml:"name"`
	Collider ColliderSpec             `yaml:"collider"`
	Movement component.MovementConfig `yaml:"movement"`
}

type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func defaultCharacterSpec() CharacterSpec {
	return CharacterSpec{
		Name:     "player",
		Collider: ColliderSpec{Width: 20, Height: 40},
		Movement: component.DefaultMovementConfig(),
	}
}

// LoadCharacterSpec reads a character spec. Keys missing from the file keep
// their default values. The movement block is validated.
func LoadCharacterSpec(filename string) (*CharacterSpec, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	spec, err := ParseCharacterSpec(data)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return spec, nil
}

// ReadCharacterSpecFile reads a spec from an explicit path, with no
// prefabs lookup or embedded fallback.
func ReadCharacterSpecFile(path string) (*CharacterSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: read %s: %w", path, err)
	}
	spec, err := ParseCharacterSpec(data)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", path, err)
	}
	return spec, nil
}

func ParseCharacterSpec(data []byte) (*CharacterSpec, error) {
	spec := defaultCharacterSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if spec.Collider.Width <= 0 || spec.Collider.Height <= 0 {
		return nil, fmt.Errorf("collider must have a positive size, got %vx%v", spec.Collider.Width, spec.Collider.Height)
	}
	if err := spec.Movement.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func MarshalCharacterSpec(spec *CharacterSpec) ([]byte, error) {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("prefabs: marshal %s: %w", spec.Name, err)
	}
	return data, nil
}
