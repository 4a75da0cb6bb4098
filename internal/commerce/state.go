package commerce

// ResolveStateCode picks the state code that decides the intra-state versus
// inter-state tax split. Priority: an address flagged both default and
// BILLING, then any BILLING address, then the first address. With no
// address at all the seller's own state code applies, which treats the order
// as intra-state.
func ResolveStateCode(addresses []Address, sellerStateCode string) string {
	for _, a := range addresses {
		if a.IsDefault && a.Type == AddressTypeBilling {
			return stateCodeOf(a, sellerStateCode)
		}
	}
	for _, a := range addresses {
		if a.Type == AddressTypeBilling {
			return stateCodeOf(a, sellerStateCode)
		}
	}
	if len(addresses) > 0 {
		return stateCodeOf(addresses[0], sellerStateCode)
	}
	return sellerStateCode
}

func stateCodeOf(a Address, fallback string) string {
	if a.StateCode != "" {
		return a.StateCode
	}
	if a.State != "" {
		return a.State
	}
	return fallback
}
