package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msageha/colonysim/internal/model"
)

const ridgeScenario = `name: ridge-survey
start: 2040-03-01T00:00:00Z
settlements:
  - name: Base
    location: {lat: 0, lon: 0}
    garage_capacity: 2
    stores: {methane: 1000, oxygen: 1000, water: 1000, food: 1000}
    equipment: {drill: 1}
    people:
      - name: Alice
        skills: {geology: 0.9}
      - name: Bob
        skills: {geology: 0.8}
        opinions: {Alice: 80}
      - name: Carol
      - name: Dave
    robots: [Rex]
    vehicles:
      - name: Rover
        category: rover
        base_speed: 30
missions:
  - name: Ridge survey
    type: exploration
    settlement: Base
    leader: Alice
    skill: geology
    min_members: 2
    max_members: 2
    priority: 5
    legs:
      - destination: Ridge
        location: {lat: 0.05, lon: 0}
        work_minutes: 120
        equipment: {drill: 1}
      - destination: Base
  - name: Crater trip
    type: exploration
    settlement: Base
    leader: Carol
    min_members: 1
    max_members: 1
    legs:
      - destination: Crater
        location: {lat: -0.1, lon: 0.1}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func loadRidge(t *testing.T) *Scenario {
	t.Helper()
	sc, err := LoadScenario(writeFile(t, "scenario.yaml", ridgeScenario))
	require.NoError(t, err)
	return sc
}

// testConfig runs as fast as possible with certain loading.
func testConfig() model.Config {
	cfg := model.DefaultConfig()
	cfg.Simulation.TickIntervalMs = 0
	cfg.Simulation.MaxTicks = 500
	cfg.Mission.LoadChance = 1
	cfg.Mission.UnloadChance = 1
	return cfg
}
