package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAmount_Partitions(t *testing.T) {
	m := New()
	m.AddAmount("oxygen", 10, true)
	m.AddAmount("oxygen", 2.5, true)
	m.AddAmount("oxygen", 4, false)
	m.AddAmount("food", 0, true)
	m.AddAmount("water", -3, true)

	assert.Equal(t, map[string]float64{"oxygen": 12.5}, m.Resources(true))
	assert.Equal(t, map[string]float64{"oxygen": 4}, m.Resources(false))
	assert.Equal(t, 12.5, m.TotalMass(true))
}

func TestItemsAndEquipment(t *testing.T) {
	m := New()
	m.AddItem("rover wheel", 2, false)
	m.AddEquipment("EVA suit", 3, true)
	m.AddEquipment("EVA suit", 1, true)
	m.AddEquipment("bag", 0, true)

	assert.Equal(t, map[string]int{"rover wheel": 2}, m.Items(false))
	assert.Empty(t, m.Items(true))
	assert.Equal(t, map[string]int{"EVA suit": 4}, m.Equipment(true))
}

func TestGettersReturnCopies(t *testing.T) {
	m := New()
	m.AddAmount("food", 1, true)
	r := m.Resources(true)
	r["food"] = 100
	assert.Equal(t, 1.0, m.Resources(true)["food"])
}

func TestMergeAndIsEmpty(t *testing.T) {
	a := New()
	assert.True(t, a.IsEmpty())

	b := New()
	b.AddAmount("methane", 20, true)
	b.AddEquipment("specimen box", 2, false)
	a.AddAmount("methane", 5, true)
	a.Merge(b)
	a.Merge(nil)

	assert.False(t, a.IsEmpty())
	assert.Equal(t, 25.0, a.Resources(true)["methane"])
	assert.Equal(t, 2, a.Equipment(false)["specimen box"])
}

func TestString_Deterministic(t *testing.T) {
	m := New()
	m.AddAmount("water", 2, true)
	m.AddAmount("food", 1, true)
	m.AddItem("wheel", 1, false)
	assert.Equal(t, "mandatory resource food=1.00\nmandatory resource water=2.00\noptional item wheel=1\n", m.String())
}
