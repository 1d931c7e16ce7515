package fleet

// ImplantSlotCount is the number of clone implant slots shown on the
// dashboard. ESI returns only occupied slots; pages pad the rest.
const ImplantSlotCount = 10

// EmptySlotName labels an unoccupied implant slot.
const EmptySlotName = "< EMPTY SLOT >"

// ImplantSlot is one of the ten clone slots.
type ImplantSlot struct {
	TypeID int64
	Name   string
}

// PadSlots maps occupied implant slots to a fixed-length slot list,
// filling unoccupied slots with the empty marker.
func PadSlots(slots []ImplantSlot) []ImplantSlot {
	padded := make([]ImplantSlot, 0, ImplantSlotCount)
	for i := 0; i < ImplantSlotCount; i++ {
		if i < len(slots) {
			padded = append(padded, slots[i])
			continue
		}
		padded = append(padded, ImplantSlot{TypeID: 0, Name: EmptySlotName})
	}
	return padded
}

// SetBonus reports the implant set bonus for the given slots.
// TODO: detect Ascendancy (high-grade 33516, 33525) and Savior sets from
// the slot type IDs and sum the relevant bonuses; until then every clone
// reports no set bonus.
func SetBonus(slots []ImplantSlot) string {
	return "None"
}
