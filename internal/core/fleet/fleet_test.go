package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleForHull(t *testing.T) {
	cases := []struct {
		hull string
		want Role
	}{
		{"Vindicator", RoleDPS},
		{"Kronos", RoleDPS},
		{"Nightmare", RoleSniper},
		{"Basilisk", RoleLogistics},
		{"Nestor", RoleSupport},
		{"Bowhead", RoleTransport},
		{"Rifter", RoleUnknown},
		{"", RoleUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, RoleForHull(tc.hull), "hull %q", tc.hull)
	}
}

func TestPadSlots(t *testing.T) {
	t.Run("pads an empty clone", func(t *testing.T) {
		padded := PadSlots(nil)
		assert.Len(t, padded, ImplantSlotCount)
		for _, slot := range padded {
			assert.Equal(t, EmptySlotName, slot.Name)
		}
	})

	t.Run("keeps occupied slots in order", func(t *testing.T) {
		padded := PadSlots([]ImplantSlot{
			{TypeID: 22107, Name: "Ocular Filter"},
			{TypeID: 22108, Name: "Memory Augmentation"},
		})

		assert.Len(t, padded, ImplantSlotCount)
		assert.Equal(t, "Ocular Filter", padded[0].Name)
		assert.Equal(t, "Memory Augmentation", padded[1].Name)
		assert.Equal(t, EmptySlotName, padded[2].Name)
	})

	t.Run("truncates beyond the slot count", func(t *testing.T) {
		slots := make([]ImplantSlot, ImplantSlotCount+2)
		assert.Len(t, PadSlots(slots), ImplantSlotCount)
	})
}

func TestSetBonus(t *testing.T) {
	assert.Equal(t, "None", SetBonus(PadSlots(nil)))
}
