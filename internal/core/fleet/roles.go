// Package fleet holds the incursion-fleet doctrine data: which hulls fill
// which role, and clone implant slot handling.
package fleet

// Role is a doctrine fleet role.
type Role string

const (
	RoleDPS       Role = "DPS"
	RoleSniper    Role = "Sniper"
	RoleLogistics Role = "Logistics"
	RoleSupport   Role = "Support"
	RoleTransport Role = "Transport"
	RoleUnknown   Role = ""
)

// Doctrine hull lists, keyed by role.
var (
	DPSHulls = []string{
		"Vindicator", "Kronos", "Golem", "Armageddon", "Hyperion", "Tempest",
		"Dominix", "Dominix Navy Issue", "Bhaalgorn", "Raven Navy Issue",
		"Barghest", "Rattlesnake",
	}
	SniperHulls    = []string{"Nightmare", "Paladin", "Vargur", "Machariel"}
	LogisticsHulls = []string{"Scimitar", "Basilisk", "Loki"}
	SupportHulls   = []string{"Nestor", "Claymore", "Vulture", "Proteus"}
	TransportHulls = []string{"Crane", "Viator", "Bowhead"}
)

var hullRoles = buildHullRoles()

func buildHullRoles() map[string]Role {
	m := make(map[string]Role)
	for _, h := range DPSHulls {
		m[h] = RoleDPS
	}
	for _, h := range SniperHulls {
		m[h] = RoleSniper
	}
	for _, h := range LogisticsHulls {
		m[h] = RoleLogistics
	}
	for _, h := range SupportHulls {
		m[h] = RoleSupport
	}
	for _, h := range TransportHulls {
		m[h] = RoleTransport
	}
	return m
}

// RoleForHull classifies a ship hull into its doctrine role.
// Returns RoleUnknown for hulls outside the doctrine.
func RoleForHull(hullName string) Role {
	return hullRoles[hullName]
}
