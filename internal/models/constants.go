package models

// Categories known to the built-in rules and the enrichment translation table.
const (
	CategoryUncounted      = "Uncounted"
	CategoryRefund         = "Refund"
	CategoryVault          = "Vault"
	CategoryGroceries      = "Groceries"
	CategoryTransport      = "Transport"
	CategoryInsurance      = "Insurance"
	CategoryDining         = "Dining"
	CategorySalary         = "Salary"
	CategoryShopping       = "Shopping"
	CategoryUtilities      = "Utilities"
	CategoryParking        = "Parking"
	CategoryHealth         = "Health"
	CategoryTravel         = "Travel"
	CategoryBankTransfer   = "Bank Transfer"
	CategoryMobileTransfer = "Mobile Transfer"
	CategoryStandingOrder  = "Standing Order"
	CategoryFee            = "Fee"
)

// Default currencies per statement format.
const (
	DefaultZKBCurrency     = "CHF"
	DefaultRevolutCurrency = "EUR"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
