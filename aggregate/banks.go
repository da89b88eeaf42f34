package aggregate

import (
	"strings"

	"github.com/nitesh7079/veneer/model"
)

// SearchBanks matches term against bank name, account number, holder and
// branch, ignoring case. An empty term returns every bank.
func SearchBanks(banks []model.Bank, term string) []model.Bank {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return banks
	}
	out := make([]model.Bank, 0, len(banks))
	for _, b := range banks {
		fields := []string{b.BankName, b.AccountNumber, b.AccountHolderName, b.BranchName}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), term) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// ActiveBanks keeps the banks that can receive new payments.
func ActiveBanks(banks []model.Bank) []model.Bank {
	out := make([]model.Bank, 0, len(banks))
	for _, b := range banks {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out
}

// PaymentModes is Cash followed by the names of the active banks, without duplicates.
func PaymentModes(banks []model.Bank) []string {
	modes := []string{model.ModeCash}
	seen := map[string]bool{model.ModeCash: true}
	for _, b := range ActiveBanks(banks) {
		if !seen[b.BankName] {
			seen[b.BankName] = true
			modes = append(modes, b.BankName)
		}
	}
	return modes
}
