package core

import "donorstay/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewRoomOccupancyRule())
	engine.Register(NewPaymentBalanceRule())
	engine.Register(NewEntitlementOverdrawRule())
	engine.Register(NewVisitHistorySyncRule())
	return engine
}
