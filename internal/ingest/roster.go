package ingest

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// MaxTeams is the number of culinary teams on the scheduling grid.
const MaxTeams = 5

// Roster maps team numbers (1..MaxTeams) to member names. It is static
// within an ingestion pass and only used to infer a team from member
// names when the sheet supplies names but no explicit team number.
type Roster map[int][]string

// DefaultRoster returns the compiled-in culinary team roster.
func DefaultRoster() Roster {
	return Roster{
		1: {"Arjun", "Meena", "Vikram", "Divya"},
		2: {"Kishore", "Lakshmi", "Rahul"},
		3: {"Priya", "Suresh", "Anita"},
		4: {"Ravi", "Kavya", "Mohan"},
		5: {"Deepa", "Sanjay", "Nisha"},
	}
}

// LoadRoster reads a roster override from a YAML file shaped as
// `teams: {1: [names...], ...}`.
func LoadRoster(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read roster %s", path)
	}
	var wrapper struct {
		Teams map[int][]string `yaml:"teams"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "ingest: parse roster")
	}
	if len(wrapper.Teams) == 0 {
		return nil, eris.Errorf("ingest: roster %s defines no teams", path)
	}
	return Roster(wrapper.Teams), nil
}

// InferTeam returns the first team (in roster order 1..MaxTeams) with at
// least one member matching any of the given names. Matching is
// case-insensitive substring in both directions, so "kishore r" matches
// roster entry "Kishore" and vice versa. Returns 0 when nothing matches.
func (r Roster) InferTeam(members []string) int {
	for team := 1; team <= MaxTeams; team++ {
		for _, rosterName := range r[team] {
			rn := strings.ToLower(rosterName)
			if rn == "" {
				continue
			}
			for _, m := range members {
				mm := strings.ToLower(strings.TrimSpace(m))
				if mm == "" {
					continue
				}
				if strings.Contains(mm, rn) || strings.Contains(rn, mm) {
					return team
				}
			}
		}
	}
	return 0
}
