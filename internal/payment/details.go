package payment

// BankDetails is the bank-transfer receiver shown for manual PKR orders.
type BankDetails struct {
	BankName      string `json:"bankName"`
	AccountTitle  string `json:"accountTitle"`
	IBAN          string `json:"iban"`
	AccountNumber string `json:"accountNumber"`
}

// RegionDetails is one region's manual payment routing. The account number
// is stored pre-masked; full numbers never reach this service.
type RegionDetails struct {
	Provider      string       `json:"provider"`
	AccountName   string       `json:"accountName"`
	SortCode      string       `json:"sortCode,omitempty"`
	AccountNumber string       `json:"accountNumber"`
	Currency      string       `json:"currency"`
	Bank          *BankDetails `json:"bank,omitempty"`
}

// Details groups the manual payment routing per region.
type Details struct {
	UK RegionDetails `json:"UK"`
	PK RegionDetails `json:"PK"`
}

// DefaultDetails returns the routing the storefront has always shown: Wise
// for UK bank transfers and a wallet receiver plus ABL bank account for
// Pakistan.
func DefaultDetails() Details {
	return Details{
		UK: RegionDetails{
			Provider:      "Wise",
			AccountName:   "Ume Farwa Syeda",
			SortCode:      "23-08-01",
			AccountNumber: "**** **** 1181",
			Currency:      "GBP",
		},
		PK: RegionDetails{
			Provider:      "Manual",
			AccountName:   "Syed Iftikhar Hussain Shah Sherazi",
			AccountNumber: "**** **** 3312",
			Currency:      "PKR",
			Bank: &BankDetails{
				BankName:      "ABL Bank Pakistan",
				AccountTitle:  "Syeda Ume Farwa",
				IBAN:          "PK21ABPA0020138324340019",
				AccountNumber: "58900020138324340019",
			},
		},
	}
}
