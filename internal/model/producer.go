package model

// ProducerKind identifies one of the nine producer tiers.
// The order is part of the persisted schema.
type ProducerKind int

const (
	ProducerAutoclicker ProducerKind = iota
	ProducerFactory
	ProducerMine
	ProducerRefinery
	ProducerQuantumDrill
	ProducerCrystalLab
	ProducerStarForge
	ProducerDimensionPortal
	ProducerVoidHarvester

	ProducerKindCount = 9
)

type producerInfo struct {
	name      string
	basePrice int64
	cpsWeight int64
}

var producerCatalog = [ProducerKindCount]producerInfo{
	ProducerAutoclicker:     {"autoclicker", 5, 1},
	ProducerFactory:         {"factory", 50, 5},
	ProducerMine:            {"mine", 500, 50},
	ProducerRefinery:        {"refinery", 5_000, 200},
	ProducerQuantumDrill:    {"quantum_drill", 50_000, 1_000},
	ProducerCrystalLab:      {"crystal_lab", 500_000, 5_000},
	ProducerStarForge:       {"star_forge", 5_000_000, 25_000},
	ProducerDimensionPortal: {"dimension_portal", 50_000_000, 100_000},
	ProducerVoidHarvester:   {"void_harvester", 500_000_000, 500_000},
}

// ProducerKinds returns all producer kinds in tier order
func ProducerKinds() []ProducerKind {
	kinds := make([]ProducerKind, ProducerKindCount)
	for i := range kinds {
		kinds[i] = ProducerKind(i)
	}
	return kinds
}

// ParseProducerKind looks up a producer kind by its name
func ParseProducerKind(name string) (ProducerKind, bool) {
	for i, info := range producerCatalog {
		if info.name == name {
			return ProducerKind(i), true
		}
	}
	return 0, false
}

// Valid reports whether k is a known producer kind
func (k ProducerKind) Valid() bool {
	return k >= 0 && k < ProducerKindCount
}

func (k ProducerKind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return producerCatalog[k].name
}

// BasePrice is the unit price a producer resets to on rebirth
func (k ProducerKind) BasePrice() int64 {
	return producerCatalog[k].basePrice
}

// CPSWeight is the per-unit contribution to the cps score
func (k ProducerKind) CPSWeight() int64 {
	return producerCatalog[k].cpsWeight
}
