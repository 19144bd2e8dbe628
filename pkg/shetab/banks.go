/**
 * @description
 * This file holds the static BIN (Bank Identification Number) table used to
 * resolve the issuing bank from the leading six digits of a card number.
 */

package shetab

// Bank identifies a card issuer by its Persian and English display names.
type Bank struct {
	Name   string `json:"name"`
	NameEn string `json:"nameEn"`
}

// UnknownBank is returned for BINs outside the table; resolution never fails.
var UnknownBank = Bank{Name: "بانک ناشناخته", NameEn: "Unknown Bank"}

var iranianBanks = map[string]Bank{
	"603799": {Name: "بانک ملی ایران", NameEn: "Bank Melli Iran"},
	"627961": {Name: "بانک صنعت و معدن", NameEn: "Bank Sanat va Madan"},
	"622106": {Name: "بانک پارسیان", NameEn: "Parsian Bank"},
	"627353": {Name: "بانک تجارت", NameEn: "Tejarat Bank"},
	"589210": {Name: "بانک سپه", NameEn: "Bank Sepah"},
	"627412": {Name: "بانک اقتصاد نوین", NameEn: "Eghtesad Novin Bank"},
	"639607": {Name: "بانک صادرات", NameEn: "Bank Saderat"},
	"627488": {Name: "بانک کارآفرین", NameEn: "Karafarin Bank"},
	"621986": {Name: "بانک سامان", NameEn: "Saman Bank"},
	"639346": {Name: "بانک سینا", NameEn: "Sina Bank"},
	"639599": {Name: "بانک قوامین", NameEn: "Ghavamin Bank"},
	"504862": {Name: "بانک شهر", NameEn: "Shahr Bank"},
	"636214": {Name: "بانک آینده", NameEn: "Ayandeh Bank"},
	"505785": {Name: "بانک توسعه تعاون", NameEn: "Tosee Taavon Bank"},
}

// BankForBIN looks up the issuer for a six-digit BIN.
func BankForBIN(bin string) (Bank, bool) {
	bank, ok := iranianBanks[bin]
	return bank, ok
}

// BINs returns the known BIN prefixes; the demo data generator draws from it.
func BINs() []string {
	bins := make([]string, 0, len(iranianBanks))
	for bin := range iranianBanks {
		bins = append(bins, bin)
	}
	return bins
}
