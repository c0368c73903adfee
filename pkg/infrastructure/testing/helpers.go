package testing

import (
	"github.com/vsinha/stockrecon/pkg/domain/entities"
)

// ShopFloorScenario is a small sheet-metal shop: one inventory export and one
// Punch and one Laser work order table, as the table extractor produces them.
type ShopFloorScenario struct {
	Ledger []entities.LedgerRow
	Punch  *entities.RawTable
	Laser  *entities.RawTable
}

// BuildShopFloorTestData builds a scenario that exercises every classification.
// Laser rows repeat Punch part numbers so the walk order is observable.
func BuildShopFloorTestData() ShopFloorScenario {
	return ShopFloorScenario{
		Ledger: []entities.LedgerRow{
			{PartNumber: "BRK-100", InternalStock: "10", ExternalStock: "0"},
			{PartNumber: "PNL-220", InternalStock: "0", ExternalStock: "8"},
			{PartNumber: "GUS-310", InternalStock: "0", ExternalStock: "2"},
			{PartNumber: "HNG-400", InternalStock: "1", ExternalStock: "5"},
			{PartNumber: "SPC-500", InternalStock: "0", ExternalStock: "0"},
			{PartNumber: "10034", InternalStock: "", ExternalStock: ""},
			{PartNumber: "10089", InternalStock: "50", ExternalStock: "50"},
			{PartNumber: " RIB-600 ", InternalStock: "4.0", ExternalStock: "n/a"},
			{PartNumber: "BRK-100", InternalStock: "999", ExternalStock: "999"},
		},
		Punch: &entities.RawTable{
			Headers: []string{"Item", "Part #", "Description", "Material", "Qté à Produire"},
			Rows: [][]string{
				{"1", "BRK-100", "Bracket", "CRS 14ga", "6"},
				{"2", "PNL-220", "Side panel", "CRS 16ga", "3"},
				{"3", "GUS-310", "Gusset", "AL 5052", "2"},
				{"4", "10034", "Weld fixture", "", "1"},
				{"5", "NEW-999", "Prototype", "SS 304", "1"},
				{"6", "", "Blank line", "", "4"},
				{"7", "RIB-600", "Rib", "CRS 12ga", "0"},
			},
		},
		Laser: &entities.RawTable{
			Headers: []string{"Item", "Part Number", "Description", "Qte a Produire"},
			Rows: [][]string{
				{"1", "BRK-100", "Bracket", "6"},
				{"2", "HNG-400", "Hinge", "3"},
				{"3", "SPC-500", "Spacer", "2"},
				{"4", "10089", "Gauge", "1"},
				{"5", "RIB-600", "Rib", "4.7"},
				{"6", "PNL-220", "Side panel", "abc"},
			},
		},
	}
}

// MustCreateDemandItem is a helper for tests - panics on validation error
func MustCreateDemandItem(partNumber string, qty entities.Quantity, source entities.Source) entities.DemandItem {
	item, err := entities.NewDemandItem(partNumber, qty, source, nil)
	if err != nil {
		panic(err)
	}
	return *item
}
