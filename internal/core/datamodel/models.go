package datamodel

import (
	"github.com/frahmantamala/asset-tracking/internal/core/datamodel/calibration"
	"github.com/frahmantamala/asset-tracking/internal/core/datamodel/loan"
	"github.com/frahmantamala/asset-tracking/internal/core/datamodel/stock"
	"github.com/frahmantamala/asset-tracking/internal/core/datamodel/tool"
	"github.com/frahmantamala/asset-tracking/internal/core/datamodel/user"
)

// Models lists every persisted model, users first.
func Models() []interface{} {
	return append([]interface{}{&user.User{}}, InventoryModels()...)
}

// InventoryModels lists the models holding inventory data, i.e. everything
// except user accounts.
func InventoryModels() []interface{} {
	return []interface{}{
		&tool.Tool{},
		&calibration.Calibration{},
		&loan.Loan{},
		&stock.StockItem{},
	}
}
