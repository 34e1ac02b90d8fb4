package colony

import (
	"sort"

	"github.com/msageha/colonysim/internal/manifest"
)

const massEpsilon = 1e-6

// LoadingPlan moves a manifest from a settlement's stores into a vehicle.
// Mandatory supplies must all be in stock when the plan is made, otherwise
// the plan fails at once; optional supplies are loaded as far as stock allows.
type LoadingPlan struct {
	manifest   *manifest.SuppliesManifest
	vehicle    *Vehicle
	settlement *Settlement
	mandatory  map[string]float64
	optional   map[string]float64
	equipment  map[string]int
	failed     bool
}

func newLoadingPlan(v *Vehicle, m *manifest.SuppliesManifest) *LoadingPlan {
	lp := &LoadingPlan{
		manifest:   m,
		vehicle:    v,
		settlement: v.parkedAt,
		mandatory:  m.Resources(true),
		optional:   m.Resources(false),
		equipment:  m.Equipment(true),
	}
	for id, n := range m.Items(true) {
		lp.equipment[id] += n
	}
	if lp.settlement == nil {
		lp.failed = true
		return lp
	}
	for res, kg := range lp.mandatory {
		if lp.settlement.Stock(res)+massEpsilon < kg {
			lp.failed = true
		}
	}
	for eq, n := range lp.equipment {
		if lp.settlement.EquipmentStock(eq) < n {
			lp.failed = true
		}
	}
	return lp
}

func (lp *LoadingPlan) Manifest() *manifest.SuppliesManifest { return lp.manifest }
func (lp *LoadingPlan) IsFailure() bool                      { return lp.failed }

func (lp *LoadingPlan) IsCompleted() bool {
	return !lp.failed && len(lp.mandatory) == 0 && len(lp.optional) == 0 && len(lp.equipment) == 0
}

// load moves up to kg of supplies, mandatory ones first. Equipment goes
// aboard in one piece once the mandatory resources are loaded.
func (lp *LoadingPlan) load(kg float64) {
	if lp.failed || lp.IsCompleted() {
		return
	}
	if lp.vehicle.parkedAt != lp.settlement {
		lp.failed = true
		return
	}
	kg = lp.drain(lp.mandatory, kg, true)
	if lp.failed || len(lp.mandatory) > 0 {
		return
	}
	for _, eq := range sortedKeys(lp.equipment) {
		n := lp.equipment[eq]
		if !lp.settlement.retrieveEquipment(eq, n) {
			lp.failed = true
			return
		}
		lp.vehicle.equipment[eq] += n
		delete(lp.equipment, eq)
	}
	lp.drain(lp.optional, kg, false)
}

func (lp *LoadingPlan) drain(want map[string]float64, kg float64, mandatory bool) float64 {
	for _, res := range sortedKeys(want) {
		if kg <= 0 {
			break
		}
		take := want[res]
		if take > kg {
			take = kg
		}
		got := lp.settlement.retrieve(res, take)
		lp.vehicle.AddCargo(res, got)
		kg -= got
		want[res] -= got
		if got+massEpsilon < take {
			if mandatory {
				lp.failed = true
				return kg
			}
			want[res] = 0
		}
		if want[res] <= massEpsilon {
			delete(want, res)
		}
	}
	return kg
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
