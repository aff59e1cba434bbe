package floorplan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Floor is an ordered list of room IDs; the order determines grid position.
type Floor struct {
	Number int      `yaml:"number" json:"number"`
	Name   string   `yaml:"name" json:"name"`
	Rooms  []string `yaml:"rooms" json:"rooms"`
}

// floorsFile is the on-disk shape of a floors file.
type floorsFile struct {
	Floors []Floor `yaml:"floors"`
}

// DefaultFloors returns the built-in third and fourth floor room lists.
func DefaultFloors() []Floor {
	return []Floor{
		{
			Number: 3,
			Name:   "3rd Floor",
			Rooms: []string{
				"302", "303", "303A", "304", "305", "306", "310", "319", "322A", "323",
				"324", "325", "326", "328", "330", "330A", "331", "332", "333", "333A",
				"333B", "334", "335", "336", "337", "338", "339", "340", "370", "371",
				"372", "375", "375A", "376", "379", "381A", "382N-A",
			},
		},
		{
			Number: 4,
			Name:   "4th Floor",
			Rooms: []string{
				"402", "404", "405", "406", "407", "409", "412", "413", "414", "419",
				"420", "421", "423", "424", "425", "426", "427", "428", "429", "430",
				"431", "433", "434", "435", "436", "437", "438", "439", "460", "461B",
				"462", "463", "463A", "464", "465",
			},
		},
	}
}

// LoadFloors reads floor definitions from a YAML file. An empty path
// returns DefaultFloors.
func LoadFloors(path string) ([]Floor, error) {
	if path == "" {
		return DefaultFloors(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading floors file %s: %w", path, err)
	}
	var ff floorsFile
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parsing floors file %s: %w", path, err)
	}
	if err := validateFloors(ff.Floors); err != nil {
		return nil, fmt.Errorf("floors file %s: %w", path, err)
	}
	return ff.Floors, nil
}

// SaveFloors writes floor definitions in the format LoadFloors reads.
func SaveFloors(path string, floors []Floor) error {
	data, err := yaml.Marshal(floorsFile{Floors: floors})
	if err != nil {
		return fmt.Errorf("marshalling floors: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func validateFloors(floors []Floor) error {
	if len(floors) == 0 {
		return fmt.Errorf("no floors defined")
	}
	seenFloor := make(map[int]bool, len(floors))
	seenRoom := make(map[string]int)
	for _, f := range floors {
		if seenFloor[f.Number] {
			return fmt.Errorf("floor %d defined twice", f.Number)
		}
		seenFloor[f.Number] = true
		for _, r := range f.Rooms {
			if r == "" {
				return fmt.Errorf("floor %d has an empty room id", f.Number)
			}
			if other, ok := seenRoom[r]; ok && other != f.Number {
				return fmt.Errorf("room %s appears on floors %d and %d", r, other, f.Number)
			}
			seenRoom[r] = f.Number
		}
	}
	return nil
}
