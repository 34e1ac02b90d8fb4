// Package manifest aggregates the supplies a mission needs to carry.
package manifest

import (
	"fmt"
	"sort"
	"strings"
)

// SuppliesManifest accumulates mandatory and optional quantities of
// resources (kg), items and equipment. Quantities only ever grow; callers
// build a fresh manifest whenever totals are needed.
type SuppliesManifest struct {
	resources map[bool]map[string]float64
	items     map[bool]map[string]int
	equipment map[bool]map[string]int
}

func New() *SuppliesManifest {
	return &SuppliesManifest{
		resources: map[bool]map[string]float64{true: {}, false: {}},
		items:     map[bool]map[string]int{true: {}, false: {}},
		equipment: map[bool]map[string]int{true: {}, false: {}},
	}
}

// AddAmount adds kg of a resource. Non-positive amounts are ignored.
func (m *SuppliesManifest) AddAmount(resource string, kg float64, mandatory bool) {
	if kg <= 0 || resource == "" {
		return
	}
	m.resources[mandatory][resource] += kg
}

func (m *SuppliesManifest) AddItem(id string, n int, mandatory bool) {
	if n <= 0 || id == "" {
		return
	}
	m.items[mandatory][id] += n
}

func (m *SuppliesManifest) AddEquipment(equipmentType string, n int, mandatory bool) {
	if n <= 0 || equipmentType == "" {
		return
	}
	m.equipment[mandatory][equipmentType] += n
}

// Merge adds every quantity of other into m.
func (m *SuppliesManifest) Merge(other *SuppliesManifest) {
	if other == nil {
		return
	}
	for _, mandatory := range []bool{true, false} {
		for k, v := range other.resources[mandatory] {
			m.AddAmount(k, v, mandatory)
		}
		for k, v := range other.items[mandatory] {
			m.AddItem(k, v, mandatory)
		}
		for k, v := range other.equipment[mandatory] {
			m.AddEquipment(k, v, mandatory)
		}
	}
}

func (m *SuppliesManifest) Resources(mandatory bool) map[string]float64 {
	out := make(map[string]float64, len(m.resources[mandatory]))
	for k, v := range m.resources[mandatory] {
		out[k] = v
	}
	return out
}

func (m *SuppliesManifest) Items(mandatory bool) map[string]int {
	return copyCounts(m.items[mandatory])
}

func (m *SuppliesManifest) Equipment(mandatory bool) map[string]int {
	return copyCounts(m.equipment[mandatory])
}

// TotalMass sums the resource quantities of one partition.
func (m *SuppliesManifest) TotalMass(mandatory bool) float64 {
	var total float64
	for _, v := range m.resources[mandatory] {
		total += v
	}
	return total
}

func (m *SuppliesManifest) IsEmpty() bool {
	for _, mandatory := range []bool{true, false} {
		if len(m.resources[mandatory])+len(m.items[mandatory])+len(m.equipment[mandatory]) > 0 {
			return false
		}
	}
	return true
}

// String renders the manifest with sorted keys, mandatory first.
func (m *SuppliesManifest) String() string {
	var sb strings.Builder
	for _, mandatory := range []bool{true, false} {
		label := "optional"
		if mandatory {
			label = "mandatory"
		}
		for _, k := range sortedKeys(m.resources[mandatory]) {
			fmt.Fprintf(&sb, "%s resource %s=%.2f\n", label, k, m.resources[mandatory][k])
		}
		for _, k := range sortedKeys(m.items[mandatory]) {
			fmt.Fprintf(&sb, "%s item %s=%d\n", label, k, m.items[mandatory][k])
		}
		for _, k := range sortedKeys(m.equipment[mandatory]) {
			fmt.Fprintf(&sb, "%s equipment %s=%d\n", label, k, m.equipment[mandatory][k])
		}
	}
	return sb.String()
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
